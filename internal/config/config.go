// Package config loads server and CLI settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr   string `env:"MEALMAX_HTTP_ADDR"   envDefault:":8080"`
	Store      string `env:"MEALMAX_STORE"       envDefault:"memory"`
	DSN        string `env:"MEALMAX_DB_DSN"`
	SQLitePath string `env:"MEALMAX_SQLITE_PATH" envDefault:"mealmax.db"`
	RandomSeed uint64 `env:"MEALMAX_RANDOM_SEED" envDefault:"0"`
	LogLevel   string `env:"MEALMAX_LOG_LEVEL"   envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("MEALMAX_DB_DSN is required when MEALMAX_STORE=%s", StorePostgres)
		}
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("MEALMAX_SQLITE_PATH is required when MEALMAX_STORE=%s", StoreSQLite)
		}
	default:
		return fmt.Errorf("unsupported MEALMAX_STORE %q", c.Store)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
