// Copyright © 2019 One Concern

package cmd

import (
	"github.com/oneconcern/zbak/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

var configGen = &cobra.Command{
	Use:   "generate",
	Short: "Generate a skeleton config",
	Long: `Generate a skeleton configuration to start from. The skeleton declares one
rsync syncer, one source and the usual daily/weekly/monthly retention
classes; adjust dataset, paths and keep counts to taste.`,
	Example: `% zbak config generate -o /etc/zbak.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := yaml.Marshal(skeletonConfig())
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		if zbakFlags.config.output == "" {
			infoLogger.Print(string(data))
			return
		}
		if err := afero.WriteFile(appFs, zbakFlags.config.output, data, 0644); err != nil {
			wrapFatalln("write config file "+zbakFlags.config.output, err)
			return
		}
	},
}

func skeletonConfig() model.Config {
	keepDaily := uint64(7)
	keepWeekly := uint64(4)
	keepMonthly := uint64(12)
	return model.Config{
		Dataset:  "tank/backup",
		Logfile:  "/var/log/zbak.log",
		Lockfile: "/var/run/zbak.lock",
		Syncers: map[string]model.SyncerDescriptor{
			"rsync": {
				Binary:  "/usr/bin/rsync",
				Command: []string{"$binary", "@options", "$source", "$destination"},
				Options: []string{"-a", "--delete", "--numeric-ids"},
			},
		},
		Sources: map[string]model.SourceDescriptor{
			"home": {
				Type:        "rsync",
				Source:      "fileserver:/home/",
				Destination: "home",
			},
		},
		Retentions: map[string]model.RetentionDescriptor{
			"daily":   {Keep: &keepDaily},
			"weekly":  {Keep: &keepWeekly},
			"monthly": {Keep: &keepMonthly},
		},
	}
}

func init() {
	addOutputFlag(configGen)
	configCmd.AddCommand(configGen)
}
