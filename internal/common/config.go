// Package common provides shared utilities for quoteboard
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for quoteboard
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Market      MarketConfig  `toml:"market"`
	Poller      PollerConfig  `toml:"poller"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	RequestTimeout string `toml:"request_timeout"`
}

// GetRequestTimeout parses the per-request deadline applied to API handlers
func (c *ServerConfig) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// StorageConfig selects and configures the holdings/watchlist store.
type StorageConfig struct {
	Backend   string `toml:"backend"` // "sqlite" (default) or "surrealdb"
	Path      string `toml:"path"`    // sqlite database file
	Address   string `toml:"address"` // surrealdb RPC address
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Alpaca AlpacaConfig `toml:"alpaca"`
}

// AlpacaConfig holds quote provider configuration
type AlpacaConfig struct {
	DataURL    string `toml:"data_url"`
	TradingURL string `toml:"trading_url"`
	KeyID      string `toml:"key_id"`
	SecretKey  string `toml:"secret_key"`
	Feed       string `toml:"feed"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlpacaConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MarketConfig holds market-data engine settings
type MarketConfig struct {
	Benchmark      string   `toml:"benchmark"`
	MaxConcurrency int      `toml:"max_concurrency"`
	StaleAfter     string   `toml:"stale_after"`
	ScreenerTop    int      `toml:"screener_top"`
	CryptoSymbols  []string `toml:"crypto_symbols"`
}

// GetStaleAfter parses the age beyond which a latest trade is flagged stale
func (c *MarketConfig) GetStaleAfter() time.Duration {
	d, err := time.ParseDuration(c.StaleAfter)
	if err != nil || d <= 0 {
		return 2 * time.Hour
	}
	return d
}

// GetMaxConcurrency returns the fan-out cap, clamped to 1..10
func (c *MarketConfig) GetMaxConcurrency() int {
	switch {
	case c.MaxConcurrency <= 0:
		return 8
	case c.MaxConcurrency > 10:
		return 10
	default:
		return c.MaxConcurrency
	}
}

// PollerConfig holds the scheduled portfolio summary settings
type PollerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron expression with seconds
	UserID   string `toml:"user_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: "30s",
		},
		Storage: StorageConfig{
			Backend:   "sqlite",
			Path:      "data/quoteboard.db",
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "quoteboard",
			Database:  "quoteboard",
		},
		Clients: ClientsConfig{
			Alpaca: AlpacaConfig{
				DataURL:    "https://data.alpaca.markets",
				TradingURL: "https://paper-api.alpaca.markets",
				Feed:       "delayed_sip",
				RateLimit:  3,
				Timeout:    "30s",
			},
		},
		Market: MarketConfig{
			Benchmark:      "SPY",
			MaxConcurrency: 8,
			StaleAfter:     "2h",
			ScreenerTop:    10,
			CryptoSymbols:  []string{"BTC/USD", "ETH/USD", "USDT/USD", "XRP/USD", "SOL/USD", "USDC/USD", "DOGE/USD"},
		},
		Poller: PollerConfig{
			Enabled:  false,
			Schedule: "0 */5 * * * *",
			UserID:   "default",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/quoteboard.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
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
	if env := os.Getenv("QUOTEBOARD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("QUOTEBOARD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("QUOTEBOARD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("QUOTEBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("QUOTEBOARD_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("QUOTEBOARD_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("QUOTEBOARD_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}

	// Provider credentials use the provider's conventional variable names
	if v := os.Getenv("ALPACA_API_KEY_ID"); v != "" {
		config.Clients.Alpaca.KeyID = v
	}
	if v := os.Getenv("ALPACA_API_SECRET_KEY"); v != "" {
		config.Clients.Alpaca.SecretKey = v
	}

	if v := os.Getenv("QUOTEBOARD_BENCHMARK"); v != "" {
		config.Market.Benchmark = strings.ToUpper(v)
	}
	if v := os.Getenv("QUOTEBOARD_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Market.MaxConcurrency = n
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ValidateRequired returns the names of required settings that are missing
func (c *Config) ValidateRequired() []string {
	var missing []string
	if c.Clients.Alpaca.KeyID == "" {
		missing = append(missing, "clients.alpaca.key_id")
	}
	if c.Clients.Alpaca.SecretKey == "" {
		missing = append(missing, "clients.alpaca.secret_key")
	}
	if c.Storage.Backend == "surrealdb" && c.Storage.Address == "" {
		missing = append(missing, "storage.address")
	}
	return missing
}
