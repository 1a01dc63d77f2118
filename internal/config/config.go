package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	DatabaseURL  string
	DatabaseName string
	Port         string
	MongoTimeout time.Duration
	LogLevel     slog.Level
}

func FromEnv() Config {
	to := 10 * time.Second
	if v := os.Getenv("MONGO_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		Port:         envOr("PORT", "8000"),
		MongoTimeout: to,
		LogLevel:     lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
