// Package config reads cinelog settings from the environment.
//
// A .env file in the working directory is loaded first when present;
// variables already set in the process environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings
type Config struct {
	DBPath   string `env:"CINELOG_DB"`
	Addr     string `env:"CINELOG_ADDR" envDefault:":8080"`
	Language string `env:"CINELOG_LANG" envDefault:"en"`

	LogLevel  string `env:"CINELOG_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"CINELOG_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"CINELOG_LOG_FILE"`
}

// Load parses the environment, reading dotenv first if it exists
func Load(dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}

// DefaultDBPath is ~/.cinelog/cinelog.db, or a relative path when home is unknown
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cinelog", "cinelog.db")
	}
	return filepath.Join(home, ".cinelog", "cinelog.db")
}
