package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration. Every field is overridable via a
// FASTING_* environment variable.
type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	MigrationsDir string
	LogLevel      string
}

func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("FASTING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./data/fasting.db")
	v.SetDefault("jwt_secret", "change-this-secret")
	v.SetDefault("token_ttl_hours", 72)
	v.SetDefault("cors_origins", "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("migrations_dir", "./migrations")
	v.SetDefault("log_level", "info")

	return Config{
		Port:          v.GetString("port"),
		DBPath:        v.GetString("db_path"),
		JWTSecret:     v.GetString("jwt_secret"),
		TokenTTL:      time.Duration(v.GetInt("token_ttl_hours")) * time.Hour,
		CORSOrigins:   splitList(v.GetString("cors_origins")),
		MigrationsDir: v.GetString("migrations_dir"),
		LogLevel:      v.GetString("log_level"),
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
