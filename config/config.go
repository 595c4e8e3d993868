// Package config reads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the binary's settings. Command-line flags override them.
type Config struct {
	Campaign  string `env:"SOLODND_CAMPAIGN"`
	Character string `env:"SOLODND_CHARACTER"`
	// Seed 0 means pick a random seed at startup.
	Seed      uint64 `env:"SOLODND_SEED" envDefault:"0"`
	LogLevel  string `env:"SOLODND_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"SOLODND_LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"SOLODND_LOG_FILE"`
	Plain     bool   `env:"SOLODND_PLAIN"`
}

// Load reads the given .env files, if they exist, then parses the
// environment. Variables already set in the environment win over .env
// values. With no paths, ".env" in the working directory is tried.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
