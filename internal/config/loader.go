// Package config provides configuration management for the sportsbook performance pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. SPORTSBOOK_APP_LOG_LEVEL.
const EnvPrefix = "SPORTSBOOK"

const defaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every scalar key so AutomaticEnv can override it
// even when the file omits it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sportsbook-performance")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.timezone", "America/New_York")

	v.SetDefault("odds_source.base_url", "https://sportsbook-odds-comparer.vercel.app")
	v.SetDefault("odds_source.timeout_seconds", 30)
	v.SetDefault("odds_source.rate_limit", 2.0)
	v.SetDefault("odds_source.max_retries", 3)
	v.SetDefault("odds_source.user_agent", "sportsbook-performance/1.0")

	v.SetDefault("results_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("results_api.api_key", "")
	v.SetDefault("results_api.days_from", 1)
	v.SetDefault("results_api.timeout_seconds", 30)
	v.SetDefault("results_api.rate_limit", 1.0)
	v.SetDefault("results_api.max_retries", 3)
	v.SetDefault("results_api.cache_ttl_seconds", 3600)

	v.SetDefault("report.output_dir", "data")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "sportsbook")
	v.SetDefault("database.user", "sportsbook")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.odds_cron", "0 9 * * *")
	v.SetDefault("schedule.sync_cron", "0 6 * * *")

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "")
	v.SetDefault("secrets.secret_name", "")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
