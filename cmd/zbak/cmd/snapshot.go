// Copyright © 2019 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/zbak/pkg/retention"
	"github.com/oneconcern/zbak/pkg/zfs"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <retention-class>",
	Short: "Snapshot the pool under a retention class",
	Long: `Create a fresh snapshot of the pool under the named retention class and
rotate the class's older snapshots according to its policy: either numbered
generation slots shifted down, or timestamped snapshots with the oldest
pruned once the class is full.

Any failure during a destructive rotation step aborts the rotation: a
partially rotated class is worse than a skipped run.`,
	Example: `% zbak -c /etc/zbak.yaml snapshot daily`,
	Args:    cobra.ExactArgs(1),
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
			engine := retention.New(cfg, pool,
				retention.WithLogger(logger),
				retention.WithDryRun(zbakFlags.snapshot.dryRun),
			)
			return engine.Rotate(ctx, args[0])
		}()
		if err != nil {
			// an unknown class is a policy error: no usage text for those
			wrapFatalln("snapshot", err)
			return
		}
	},
}

func init() {
	addSnapshotDryRunFlag(snapshotCmd)
	rootCmd.AddCommand(snapshotCmd)
}
