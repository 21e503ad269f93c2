package redis

import (
	"time"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/resilience"
)

// Config holds Redis connection settings.
type Config struct {
	// Addr is the server address (host:port).
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 1
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.InvalidConfig("redis addr is required")
	}
	if c.DB < 0 {
		return errors.InvalidConfig("redis db must be >= 0")
	}
	return nil
}

// ListConfig describes which list a ListSource drains and when it stops.
type ListConfig struct {
	// Key is the list to pop from.
	Key string `mapstructure:"key"`
	// IdleTimeout ends the sequence when no element arrives in time. Redis
	// counts BLPOP timeouts in whole seconds; shorter values wait one second.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// EndMarker, when set, ends the sequence once popped. The marker itself
	// is not emitted.
	EndMarker string `mapstructure:"end_marker"`
	// MaxItems stops after this many elements; 0 means no limit.
	MaxItems int `mapstructure:"max_items"`
	// Retry retries failed pops when MaxAttempts is above one.
	Retry resilience.RetryConfig `mapstructure:"retry"`
}

// ApplyDefaults sets a one second idle timeout.
func (c *ListConfig) ApplyDefaults() {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = time.Second
	}
}

// Validate checks required fields.
func (c *ListConfig) Validate() error {
	if c.Key == "" {
		return errors.InvalidConfig("redis list key is required")
	}
	if c.MaxItems < 0 {
		return errors.InvalidConfig("redis list max_items must be >= 0")
	}
	return nil
}
