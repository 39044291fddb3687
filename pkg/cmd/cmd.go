// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "swft",
		Short: "An ephemeral file sharing service",
		Long:  "swft stores uploaded files under short links and deletes them automatically after their retention time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 不带子命令时直接启动服务
			return runServe()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose debug output")

	registerServeCommands()
	registerConfigsCommands()
	registerMQCommands()
	registerReapCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
