// Copyright © 2019 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		configFile string
		verbosity  int
	}
	sync struct {
		dryRun bool
	}
	snapshot struct {
		dryRun bool
	}
	config struct {
		output string
	}
}

var zbakFlags = flagsT{}

func addConfigFileFlag(cmd *cobra.Command) string {
	configFile := "config"
	cmd.PersistentFlags().StringVarP(&zbakFlags.root.configFile, configFile, "c", "",
		"Path to the configuration file (may also be set with ZBAK_CONFIG)")
	return configFile
}

func addVerboseFlag(cmd *cobra.Command) string {
	verbose := "verbose"
	cmd.PersistentFlags().CountVarP(&zbakFlags.root.verbosity, verbose, "v",
		"Increase verbosity (repeatable)")
	return verbose
}

func addSyncDryRunFlag(cmd *cobra.Command) string {
	dryRun := "dry-run"
	cmd.Flags().BoolVar(&zbakFlags.sync.dryRun, dryRun, false,
		"Log the sync commands that would run without executing them")
	return dryRun
}

func addSnapshotDryRunFlag(cmd *cobra.Command) string {
	dryRun := "dry-run"
	cmd.Flags().BoolVar(&zbakFlags.snapshot.dryRun, dryRun, false,
		"Log the rotation steps that would run without executing them")
	return dryRun
}

func addOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVarP(&zbakFlags.config.output, output, "o", "",
		"Write to this file instead of stdout")
	return output
}
