package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the tickboard service.
type Config struct {
	Storage Storage     `yaml:"storage"`
	Server  Server      `yaml:"server"`
	Market  Market      `yaml:"market"`
	Board   BoardConfig `yaml:"board"`
	Logging Logging     `yaml:"logging"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Market holds the base URL and default credential for the market-data API.
type Market struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// BoardConfig controls refresh behaviour and the startup symbol list.
type BoardConfig struct {
	RefreshSecs    int    `yaml:"refresh_secs"`
	DefaultSymbols string `yaml:"default_symbols"`
	AutoRefresh    bool   `yaml:"auto_refresh"`
	RecordHistory  bool   `yaml:"record_history"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Storage: Storage{
			DataDir:    "data",
			SQLitePath: "tickboard.db",
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Market: Market{
			BaseURL: "https://finnhub.io/api/v1",
			Token:   "demo",
		},
		Board: BoardConfig{
			RefreshSecs:    60,
			DefaultSymbols: "AAPL,MSFT,GOOGL,AMZN,TSLA,NVDA",
			AutoRefresh:    true,
			RecordHistory:  true,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML configuration file at the given path, parses it on top
// of the defaults, and then applies environment variable overrides. A missing
// file is not an error: the defaults (plus env overrides) are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("MARKET_API_URL"); v != "" {
		cfg.Market.BaseURL = v
	}

	if v := os.Getenv("MARKET_API_TOKEN"); v != "" {
		cfg.Market.Token = v
	}

	if v := os.Getenv("TICKBOARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
