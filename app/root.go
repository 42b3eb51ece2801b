// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var (
	configPath string // directory holding main.toml and an optional .env

	rootCmd = &cobra.Command{
		Use:   "taskflow",
		Short: "TaskFlow is a task tracker with email and password accounts",
		Long: `TaskFlow is a server rendered web application. This binary runs its web
service and offers maintenance commands for configuration and user accounts.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
