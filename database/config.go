package database

import (
	"time"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/resilience"
)

// Config holds database connection settings.
type Config struct {
	// DSN is the SQLite file path or URI (e.g. "file::memory:?cache=shared").
	DSN string `mapstructure:"dsn"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// SlowQueryThreshold logs queries slower than this at warn level.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level"`

	// Connect retries opening the connection.
	Connect resilience.RetryConfig `mapstructure:"connect"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.SlowQueryThreshold <= 0 {
		c.SlowQueryThreshold = 200 * time.Millisecond
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	c.Connect.ApplyDefaults()
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return errors.InvalidConfig("database dsn is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.InvalidConfig("database max_idle_conns must be <= max_open_conns")
	}
	switch c.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return errors.InvalidConfig("database log_level must be one of silent, error, warn, info")
	}
	return nil
}
