package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IBE160/SG-Gruppe-12-sub002/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		return database.RunMigrations(url)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		url, err := databaseURL()
		if err != nil {
			return err
		}
		return database.RollbackMigrations(url, steps)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)

	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to revert")
}

func databaseURL() (string, error) {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return cfg.DatabaseURL, nil
}
