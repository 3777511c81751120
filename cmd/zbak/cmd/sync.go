// Copyright © 2019 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/zbak/pkg/errors"
	"github.com/oneconcern/zbak/pkg/syncer"
	"github.com/oneconcern/zbak/pkg/zfs"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [source...]",
	Short: "Sync sources into the pool",
	Long: `Sync the named sources into the pool mountpoint, or every configured source
when no names are given.

Each source runs through the external tool its syncer type declares. One
source failing does not stop the others; failures are logged with the full
command, exit code and captured output.`,
	Example: `% zbak -c /etc/zbak.yaml sync
% zbak -c /etc/zbak.yaml sync home mail`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := requireConfig(cmd)
		if cfg == nil {
			return
		}
		logger, closeLog, ok := newLogger(cfg)
		if !ok {
			return
		}
		defer closeLog()
		lock, ok := acquireLock(cfg, logger)
		if !ok {
			return
		}

		// the fatal helpers exit the process: the lock must already be
		// released by the time they run
		err := func() error {
			defer lock.Release()
			ctx := context.Background()
			pool := zfs.New(cfg.Dataset, execRunner, zfs.WithLogger(logger))
			dispatcher := syncer.New(cfg, pool, execRunner,
				syncer.WithLogger(logger),
				syncer.WithDryRun(zbakFlags.sync.dryRun),
			)
			return dispatcher.Sync(ctx, args)
		}()
		if err != nil {
			switch {
			case errors.Is(err, errors.ErrUnknownSource),
				errors.Is(err, errors.ErrUnknownSyncer),
				errors.Is(err, errors.ErrBadToken):
				wrapFatalUsage(cmd, "sync", err)
			default:
				wrapFatalln("sync", err)
			}
			return
		}
	},
}

func init() {
	addSyncDryRunFlag(syncCmd)
	rootCmd.AddCommand(syncCmd)
}
