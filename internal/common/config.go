// Package common provides shared utilities for MarketLens
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for MarketLens
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Fetch       FetchConfig   `toml:"fetch"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	UserDB AreaConfig `toml:"userdb"` // User portfolio + notes documents (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub FinnhubConfig `toml:"finnhub"`
}

// FinnhubConfig holds market data provider configuration
type FinnhubConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"` // client-side requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// FetchConfig tunes the request cache, sliding rate window, and retry policy.
type FetchConfig struct {
	MaxRetries  int    `toml:"max_retries"`
	WindowSize  int    `toml:"window_size"`  // max requests per endpoint per window
	WindowSpan  string `toml:"window_span"`  // sliding window duration
	QuoteTTL    string `toml:"quote_ttl"`    // short-lived price data
	ProfileTTL  string `toml:"profile_ttl"`  // company profile + metrics
	NewsTTL     string `toml:"news_ttl"`     // news, peers, candles
	EarningsTTL string `toml:"earnings_ttl"` // earnings + financial statements
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// GetWindowSpan parses the sliding window duration (default 60s).
func (c *FetchConfig) GetWindowSpan() time.Duration {
	return parseDurationOr(c.WindowSpan, 60*time.Second)
}

// GetQuoteTTL parses the quote cache TTL (default 5m).
func (c *FetchConfig) GetQuoteTTL() time.Duration {
	return parseDurationOr(c.QuoteTTL, 5*time.Minute)
}

// GetProfileTTL parses the profile/metrics cache TTL (default 30m).
func (c *FetchConfig) GetProfileTTL() time.Duration {
	return parseDurationOr(c.ProfileTTL, 30*time.Minute)
}

// GetNewsTTL parses the news/peers/candles cache TTL (default 15m).
func (c *FetchConfig) GetNewsTTL() time.Duration {
	return parseDurationOr(c.NewsTTL, 15*time.Minute)
}

// GetEarningsTTL parses the earnings/financials cache TTL (default 30m).
func (c *FetchConfig) GetEarningsTTL() time.Duration {
	return parseDurationOr(c.EarningsTTL, 30*time.Minute)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			UserDB: AreaConfig{Path: "data/userdb"},
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				RateLimit: 10,
				Timeout:   "10s",
			},
		},
		Fetch: FetchConfig{
			MaxRetries:  3,
			WindowSize:  30,
			WindowSpan:  "60s",
			QuoteTTL:    "5m",
			ProfileTTL:  "30m",
			NewsTTL:     "15m",
			EarningsTTL: "30m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETLENS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MARKETLENS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MARKETLENS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MARKETLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("MARKETLENS_DATA_PATH"); path != "" {
		config.Storage.UserDB.Path = path
	}

	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		config.Clients.Finnhub.APIKey = key
	}
	if key := os.Getenv("MARKETLENS_FINNHUB_API_KEY"); key != "" {
		config.Clients.Finnhub.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
