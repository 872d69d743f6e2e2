package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.RunbookFile != "" || cfg.SinksFile != "" {
		t.Fatalf("expected empty runbook and sinks files, got %q %q", cfg.RunbookFile, cfg.SinksFile)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BOOKSTORE_BASE_URL", "http://books.internal:8080/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://books.internal:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")
	if _, err := load(viper.New()); err == nil {
		t.Fatalf("expected error for zero timeout")
	}

	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("BOOKSTORE_BASE_URL", "localhost")
	if _, err := load(viper.New()); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
}
