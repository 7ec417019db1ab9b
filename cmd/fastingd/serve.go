package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fasting/backend/internal/clock"
	"fasting/backend/internal/config"
	"fasting/backend/internal/db"
	"fasting/backend/internal/handler"
	"fasting/backend/internal/repository"
	"fasting/backend/internal/router"
	"fasting/backend/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	userRepo := repository.NewUserRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	clk := clock.System{}
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	fastingService := service.NewFastingService(settingsRepo, sessionRepo, clk, logger)

	authHandler := handler.NewAuthHandler(authService)
	fastingHandler := handler.NewFastingHandler(fastingService, clk)

	engine := router.New(authService, authHandler, fastingHandler, cfg.CORSOrigins)
	logger.Info().Str("port", cfg.Port).Msg("fasting backend listening")
	return engine.Run(":" + cfg.Port)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Logger()
}
