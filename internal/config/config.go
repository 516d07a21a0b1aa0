// Package config provides configuration management for the sportsbook performance pipeline.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	OddsSource OddsSourceConfig `mapstructure:"odds_source" validate:"required"`
	ResultsAPI ResultsAPIConfig `mapstructure:"results_api" validate:"required"`
	Sports     []SportConfig    `mapstructure:"sports" validate:"omitempty,dive"`
	Report     ReportConfig     `mapstructure:"report" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	Timezone    string `mapstructure:"timezone" validate:"required,timezone"`
}

// OddsSourceConfig configures the odds comparison site
type OddsSourceConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	UserAgent      string  `mapstructure:"user_agent"`
}

// ResultsAPIConfig configures The Odds API scores endpoint
type ResultsAPIConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	DaysFrom        int     `mapstructure:"days_from" validate:"gte=0,lte=3"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// ReportConfig represents where daily report files are written
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir" validate:"required"`
}

// DatabaseConfig represents the optional PostgreSQL sink
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig holds the cron specs used by the serve command
type ScheduleConfig struct {
	OddsCron string `mapstructure:"odds_cron" validate:"required,cronspec"`
	SyncCron string `mapstructure:"sync_cron" validate:"required,cronspec"`
}

// SecretsConfig enables the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Location returns the zone kickoffs and run dates are expressed in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// SportTable returns the configured sports, or the built-in table when the
// config lists none
func (c *Config) SportTable() *SportTable {
	if len(c.Sports) == 0 {
		return NewSportTable(DefaultSports)
	}
	return NewSportTable(c.Sports)
}

// CacheTTL returns the results cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.ResultsAPI.CacheTTLSeconds) * time.Second
}

// DSN returns the connection URL of the report database. Credentials are
// escaped and connections identify themselves as appName.
func (d DatabaseConfig) DSN(appName string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	if appName != "" {
		q.Set("application_name", appName)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
