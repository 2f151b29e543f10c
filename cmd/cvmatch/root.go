package main

import (
	"github.com/spf13/cobra"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/config"
	"github.com/IBE160/SG-Gruppe-12-sub002/pkg/logger"
)

const app = "cvmatch"

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "cvmatch scores CVs against job postings and manages the service database",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logger.Setup(level, "development")
	},
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
}

// loadConfig reads the same environment as the server.
func loadConfig() *config.Config {
	return config.Load()
}
