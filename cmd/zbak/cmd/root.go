// Copyright © 2019 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/oneconcern/zbak/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zbak",
	Short: "zbak orchestrates backups of a storage pool",
	Long: `zbak orchestrates periodic backups of a storage pool: it pulls remote data
into the pool with configurable external sync tools, snapshots the pool under
named retention classes and rotates old snapshots out according to each
class's policy.

zbak does not schedule anything by itself: run it from cron or a systemd
timer. Everything it does is declared in a single configuration file.
`,
}

// config is the loaded configuration, nil until initConfig managed to load
// and validate the file given with -c.
var config *model.Config

// appFs is the filesystem commands write through, patched over in tests.
var appFs = afero.NewOsFs()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	addConfigFileFlag(rootCmd)
	addVerboseFlag(rootCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in the config file named by -c or ZBAK_CONFIG.
// Commands that need a configuration check for one in their Run: a missing
// file is only an error for them, not for e.g. "zbak config generate".
func initConfig() {
	config = nil
	cfgFile := zbakFlags.root.configFile
	if cfgFile == "" {
		cfgFile = os.Getenv("ZBAK_CONFIG")
	}
	if cfgFile == "" {
		return
	}

	viper.Reset()
	viper.SetFs(appFs)
	viper.SetConfigFile(cfgFile)
	viper.AutomaticEnv() // read in environment variables that match
	if err := viper.ReadInConfig(); err != nil {
		wrapFatalUsage(rootCmd, "reading config file "+cfgFile, err)
		return
	}

	loaded := &model.Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		wrapFatalUsage(rootCmd, "parsing config file "+cfgFile, err)
		return
	}
	if err := loaded.Validate(); err != nil {
		wrapFatalUsage(rootCmd, "invalid config file "+cfgFile, err)
		return
	}
	config = loaded
}

// requireConfig fetches the loaded configuration for commands that cannot
// run without one. Returns nil after reporting a usage error.
func requireConfig(cmd *cobra.Command) *model.Config {
	if config == nil {
		wrapFatalUsage(cmd, "a configuration file is required (-c <configfile> or ZBAK_CONFIG)", nil)
		return nil
	}
	return config
}
