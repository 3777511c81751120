// Copyright © 2019 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd groups the configuration related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the zbak config",
	Long: `Commands to manage the zbak configuration file.

The configuration declares the backed up dataset, the retention classes
rotating its snapshots and the sources synced into it.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
