package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := Default()
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("port = %d, want default %d", cfg.Server.Port, def.Server.Port)
	}
	if cfg.Market.BaseURL != def.Market.BaseURL {
		t.Errorf("base URL = %q, want default %q", cfg.Market.BaseURL, def.Market.BaseURL)
	}
	if cfg.Board.RefreshSecs != 60 {
		t.Errorf("refresh secs = %d, want 60", cfg.Board.RefreshSecs)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
board:
  default_symbols: "TSLA,NVDA"
  auto_refresh: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Board.DefaultSymbols != "TSLA,NVDA" {
		t.Errorf("symbols = %q", cfg.Board.DefaultSymbols)
	}
	if cfg.Board.AutoRefresh {
		t.Errorf("auto_refresh should be false")
	}
	// Untouched sections keep their defaults.
	if cfg.Market.BaseURL != Default().Market.BaseURL {
		t.Errorf("base URL = %q, want default", cfg.Market.BaseURL)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MARKET_API_TOKEN", "env-token")
	t.Setenv("TICKBOARD_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SQLITE_PATH", "/tmp/env.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Market.Token != "env-token" {
		t.Errorf("token = %q", cfg.Market.Token)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Storage.SQLitePath != "/tmp/env.db" {
		t.Errorf("sqlite path = %q", cfg.Storage.SQLitePath)
	}
}

func TestEnvOverridesBadPortIgnored(t *testing.T) {
	t.Setenv("TICKBOARD_PORT", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("invalid port env should be ignored, got %d", cfg.Server.Port)
	}
}
