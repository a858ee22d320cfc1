// Package config loads assistant configuration from the environment, with
// an optional .env file for local setups.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Defaults work out of the box for a
// single local operator; the weather key is the only thing that must be
// supplied for full functionality.
type Config struct {
	DBPath   string `env:"NOVA_DB_PATH"`
	WakeWord string `env:"NOVA_WAKE_WORD" envDefault:"nova"`

	// Identity of the local operator account the CLI runs under.
	Username string `env:"NOVA_USERNAME" envDefault:"nova"`
	Email    string `env:"NOVA_EMAIL" envDefault:"nova@localhost"`

	WeatherAPIKey  string `env:"WEATHER_API_KEY"`
	WeatherBaseURL string `env:"WEATHER_BASE_URL"`

	AnswersBaseURL string `env:"ANSWERS_BASE_URL"`
	AnswersModel   string `env:"ANSWERS_MODEL" envDefault:"llama3.2"`

	ProbeURL       string        `env:"NOVA_PROBE_URL"`
	RequestTimeout time.Duration `env:"NOVA_REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".nova", "nova.db")
	}

	return cfg, nil
}
