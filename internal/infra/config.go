package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SeedAccount is a demo account created at startup when it does not already
// exist in the snapshot. The original simulator pre-funds two such users.
type SeedAccount struct {
	Username string          `yaml:"username"`
	Password string          `yaml:"password"`
	Balance  decimal.Decimal `yaml:"balance"`
}

// Config holds every application setting. Secrets loaded from the file can
// be overridden through environment variables afterwards.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Finnhub struct {
		BaseURL    string   `yaml:"base_url"`
		WSURL      string   `yaml:"ws_url"`
		APIKey     string   `yaml:"api_key"`
		TimeoutSec int      `yaml:"timeout_sec"`
		Watchlist  []string `yaml:"watchlist"`
	} `yaml:"finnhub"`

	SeedAccounts []SeedAccount `yaml:"seed_accounts"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if cfg.Finnhub.TimeoutSec <= 0 {
		cfg.Finnhub.TimeoutSec = 10
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Finnhub.BaseURL == "" || (!hasPrefix(c.Finnhub.BaseURL, "http://") && !hasPrefix(c.Finnhub.BaseURL, "https://")) {
		return fmt.Errorf("invalid Finnhub base URL: %s", c.Finnhub.BaseURL)
	}

	// The stream is optional; only validate its URL when a watchlist asks for it.
	if len(c.Finnhub.Watchlist) > 0 {
		if c.Finnhub.WSURL == "" || (!hasPrefix(c.Finnhub.WSURL, "ws://") && !hasPrefix(c.Finnhub.WSURL, "wss://")) {
			return fmt.Errorf("invalid Finnhub WS URL: %s", c.Finnhub.WSURL)
		}
	}

	for _, seed := range c.SeedAccounts {
		if seed.Username == "" {
			return fmt.Errorf("seed account with empty username")
		}
		if seed.Balance.IsNegative() {
			return fmt.Errorf("seed account %s has negative balance", seed.Username)
		}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces settings for which an environment variable exists.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("PAPERTRADE_FINNHUB_KEY"); key != "" {
		cfg.Finnhub.APIKey = key
	}
	if level := os.Getenv("PAPERTRADE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
