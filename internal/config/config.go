// Package config loads and validates tickerdeck configuration.
// Priority: defaults -> TOML files -> TICKERDECK_* environment -> CLI flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server" validate:"required"`
	Providers   ProvidersConfig `toml:"providers"`
	Cache       CacheConfig     `toml:"cache"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

// ProvidersConfig holds credentials for the upstream market-data providers.
// A provider with no credentials is disabled; the others keep working.
type ProvidersConfig struct {
	Alpaca       AlpacaConfig       `toml:"alpaca"`
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
	Finnhub      FinnhubConfig      `toml:"finnhub"`
}

// AlpacaConfig holds Alpaca Market Data API credentials.
type AlpacaConfig struct {
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

// Configured reports whether both key and secret are set.
func (c AlpacaConfig) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// AlphaVantageConfig holds Alpha Vantage API credentials.
type AlphaVantageConfig struct {
	APIKey string `toml:"api_key"`
}

// FinnhubConfig holds Finnhub API credentials.
type FinnhubConfig struct {
	APIKey string `toml:"api_key"`
}

// CacheConfig contains cache store settings.
type CacheConfig struct {
	Badger BadgerConfig `toml:"badger"`
	// SweepSchedule is a cron expression for the stale-entry sweeper.
	// Empty disables the sweeper.
	SweepSchedule string `toml:"sweep_schedule"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path" validate:"required"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode reports whether the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return c.Environment == "dev"
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies TICKERDECK_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("TICKERDECK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TICKERDECK_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if key := os.Getenv("TICKERDECK_ALPACA_API_KEY"); key != "" {
		config.Providers.Alpaca.APIKey = key
	}
	if secret := os.Getenv("TICKERDECK_ALPACA_API_SECRET"); secret != "" {
		config.Providers.Alpaca.APISecret = secret
	}
	if key := os.Getenv("TICKERDECK_ALPHAVANTAGE_API_KEY"); key != "" {
		config.Providers.AlphaVantage.APIKey = key
	}
	if key := os.Getenv("TICKERDECK_FINNHUB_API_KEY"); key != "" {
		config.Providers.Finnhub.APIKey = key
	}
	if badgerPath := os.Getenv("TICKERDECK_BADGER_PATH"); badgerPath != "" {
		config.Cache.Badger.Path = badgerPath
	}
	if level := os.Getenv("TICKERDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory fields and returns human-readable issues.
func (c *Config) Validate() []string {
	var issues []string

	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				issues = append(issues, fmt.Sprintf("%s failed %q validation (value: %v)", ve.Namespace(), ve.Tag(), ve.Value()))
			}
		} else {
			issues = append(issues, err.Error())
		}
	}

	if c.Providers.Alpaca.APIKey != "" && c.Providers.Alpaca.APISecret == "" {
		issues = append(issues, "providers.alpaca.api_secret is required when api_key is set")
	}

	return issues
}
