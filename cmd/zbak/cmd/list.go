// Copyright © 2019 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/zbak/pkg/dlogger"
	"github.com/oneconcern/zbak/pkg/report"
	"github.com/oneconcern/zbak/pkg/zfs"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [snapshots|sources|retentions]",
	Short: "List snapshots, sources or retention classes",
	Long: `List what zbak knows about. Without an argument, list the snapshots of the
pool together with its usage, split into snapshots managed by a configured
retention class and unmanaged ones.

"sources" and "retentions" list the configuration; add -v for details.`,
	Example: `% zbak -c /etc/zbak.yaml list
% zbak -c /etc/zbak.yaml -v list retentions`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig(cmd)
		if cfg == nil {
			return
		}
		kind := "snapshots"
		if len(args) == 1 {
			kind = args[0]
		}

		reporter := report.New(cfg,
			report.WithOutput(cmd.OutOrStdout()),
			report.WithVerbosity(zbakFlags.root.verbosity),
		)
		var err error
		switch kind {
		case "sources":
			err = reporter.Sources()
		case "retentions":
			err = reporter.Retentions()
		case "snapshots":
			// a read-only listing stays out of the shared logfile; any
			// failure still surfaces through the fatal path below
			level := dlogger.LogLevelNone
			switch {
			case zbakFlags.root.verbosity >= 2:
				level = dlogger.LogLevelDebug
			case zbakFlags.root.verbosity == 1:
				level = dlogger.LogLevelInfo
			}
			pool := zfs.New(cfg.Dataset, execRunner, zfs.WithLogger(dlogger.MustGetLogger(level)))
			err = reporter.Snapshots(context.Background(), pool)
		default:
			wrapFatalUsage(cmd, "unknown listing "+kind, nil)
			return
		}
		if err != nil {
			wrapFatalln("list "+kind, err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
