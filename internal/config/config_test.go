package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/novahq/nova/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.WakeWord != "nova" {
		t.Errorf("expected default wake word 'nova', got %q", cfg.WakeWord)
	}
	if cfg.Username != "nova" {
		t.Errorf("expected default username 'nova', got %q", cfg.Username)
	}
	if cfg.AnswersModel != "llama3.2" {
		t.Errorf("expected default model, got %q", cfg.AnswersModel)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.DBPath == "" {
		t.Error("expected a default database path")
	}
	if filepath.Base(cfg.DBPath) != "nova.db" {
		t.Errorf("expected default db file nova.db, got %q", cfg.DBPath)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("NOVA_DB_PATH", "/tmp/custom.db")
	t.Setenv("NOVA_WAKE_WORD", "jarvis")
	t.Setenv("WEATHER_API_KEY", "secret")
	t.Setenv("NOVA_REQUEST_TIMEOUT", "3s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("expected db path override, got %q", cfg.DBPath)
	}
	if cfg.WakeWord != "jarvis" {
		t.Errorf("expected wake word override, got %q", cfg.WakeWord)
	}
	if cfg.WeatherAPIKey != "secret" {
		t.Errorf("expected weather key, got %q", cfg.WeatherAPIKey)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.RequestTimeout)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("NOVA_REQUEST_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Error("expected an error for an unparseable duration")
	}
}
