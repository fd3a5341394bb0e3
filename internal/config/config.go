// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process-wide configuration. Command-line flags override
// individual fields where a command exposes one.
type Config struct {
	// DBPath overrides the default XDG database location.
	DBPath string `env:"BENKYO_DB"`
	// UserID identifies whose progress is tracked. A single-machine
	// install keeps the default; shared machines set one per person.
	UserID string `env:"BENKYO_USER" envDefault:"local"`
	// RemindAt is the HH:MM local time for the daily review digest.
	RemindAt string `env:"BENKYO_REMIND_AT" envDefault:"08:00"`
	// Verbose enables debug logging.
	Verbose bool `env:"BENKYO_VERBOSE"`
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
