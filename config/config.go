package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete bot configuration.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Broker  BrokerConfig  `yaml:"broker"`
	State   StateConfig   `yaml:"state"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

// BotConfig holds the two strategy constants and the polling cadence.
type BotConfig struct {
	Symbol          string  `yaml:"symbol"`
	DCAAmount       float64 `yaml:"dca_amount"`
	IntervalSeconds int     `yaml:"interval_seconds"`
	SkipWhenClosed  bool    `yaml:"skip_when_closed"` // advisory market-hours gate in the run loop
}

// BrokerConfig selects and configures the broker adapter.
type BrokerConfig struct {
	Mode    string `yaml:"mode"`     // "alpaca" or "sim"
	BaseURL string `yaml:"base_url"` // trading API, e.g. https://paper-api.alpaca.markets
	DataURL string `yaml:"data_url"` // market data API
	// API credentials come from ALPACA_API_KEY / ALPACA_SECRET_KEY, never
	// from this file.

	SimBalance float64 `yaml:"sim_balance,omitempty"` // starting cash for mode "sim"
	SimPrice   float64 `yaml:"sim_price,omitempty"`   // static quote for mode "sim"
}

// StateConfig says where the position ledger lives.
type StateConfig struct {
	Path string `yaml:"path"`
}

// JournalConfig controls the fill journal.
type JournalConfig struct {
	Type      string `yaml:"type"` // "csv", "sqlite" or "none"
	FillsFile string `yaml:"fills_file,omitempty"`
	DBPath    string `yaml:"db_path,omitempty"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Interval returns the polling interval as a time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Bot.IntervalSeconds) * time.Second
}

// LoadFromFile loads configuration from a YAML file. A .env next to the
// binary is loaded first so broker credentials can live there.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Broker.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Broker.DataURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Bot.Symbol == "" {
		return fmt.Errorf("bot.symbol is required")
	}
	if c.Bot.DCAAmount <= 0 {
		return fmt.Errorf("bot.dca_amount must be positive")
	}
	if c.Bot.IntervalSeconds <= 0 {
		return fmt.Errorf("bot.interval_seconds must be positive")
	}
	if c.Broker.Mode != "alpaca" && c.Broker.Mode != "sim" {
		return fmt.Errorf("broker.mode must be 'alpaca' or 'sim'")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.FillsFile == "" {
			return fmt.Errorf("journal.fills_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults: paper trading
// against Alpaca, one tick per minute, sqlite journal.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			Symbol:          "SOUN",
			DCAAmount:       20,
			IntervalSeconds: 60,
		},
		Broker: BrokerConfig{
			Mode:       "alpaca",
			BaseURL:    "https://paper-api.alpaca.markets",
			DataURL:    "https://data.alpaca.markets",
			SimBalance: 1000,
			SimPrice:   5,
		},
		State: StateConfig{
			Path: "cyclebot-state.json",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "cyclebot.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
