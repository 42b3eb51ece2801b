package app

import (
	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/daemon"
	"github.com/taskflow-app/taskflow/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().BoolVar(
		&browseStatic,
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	cfg          config.Config
	devMode      bool
	browseStatic bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the TaskFlow web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if cfg, err = config.ReadConfig(configPath); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if browseStatic {
				cfg.Webserver.BrowseStatic = true
			}

			return logger.Init(cfg.Log)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
