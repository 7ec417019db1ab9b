package main

import (
	"github.com/spf13/cobra"

	"fasting/backend/internal/config"
	"fasting/backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := newLogger(cfg.LogLevel)

		database, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
			return err
		}

		logger.Info().Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
