package kafka

import (
	"slices"
	"time"

	"github.com/kbukum/streamkit/errors"
)

// Start offsets accepted by Config.StartOffset.
const (
	OffsetFirst = "first"
	OffsetLast  = "last"
)

// Config describes the topic a TopicSource reads and how the reader connects.
type Config struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	// GroupID enables consumer-group offset tracking; empty reads partition 0
	// without committing.
	GroupID string `mapstructure:"group_id"`
	// StartOffset is "first" or "last" and applies when the group has no
	// committed offset.
	StartOffset string `mapstructure:"start_offset"`

	MinBytes int `mapstructure:"min_bytes"`
	MaxBytes int `mapstructure:"max_bytes"`

	// MaxMessages ends the stream after this many messages; 0 means no limit.
	MaxMessages int `mapstructure:"max_messages"`
	// IdleTimeout ends the stream when no message arrives in time; 0 waits
	// until the caller's context is done.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	DialTimeout       time.Duration `mapstructure:"dial_timeout"`
	SessionTimeout    time.Duration `mapstructure:"session_timeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`

	EnableTLS     bool   `mapstructure:"enable_tls"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	TLSCAFile     string `mapstructure:"tls_ca_file"`
	TLSCertFile   string `mapstructure:"tls_cert_file"`
	TLSKeyFile    string `mapstructure:"tls_key_file"`

	EnableSASL    bool   `mapstructure:"enable_sasl"`
	SASLMechanism string `mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.StartOffset == "" {
		c.StartOffset = OffsetFirst
	}
	if c.MinBytes <= 0 {
		c.MinBytes = 1
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10e6
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = 30 * time.Second
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 3 * time.Second
	}
	if c.EnableSASL && c.SASLMechanism == "" {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	switch {
	case len(c.Brokers) == 0:
		return errors.InvalidConfig("kafka brokers are required")
	case c.Topic == "":
		return errors.InvalidConfig("kafka topic is required")
	case c.StartOffset != OffsetFirst && c.StartOffset != OffsetLast:
		return errors.InvalidConfig("kafka start_offset must be first or last")
	case c.MaxMessages < 0:
		return errors.InvalidConfig("kafka max_messages must be >= 0")
	case c.MinBytes > c.MaxBytes:
		return errors.InvalidConfig("kafka min_bytes must not exceed max_bytes")
	}
	if c.EnableSASL {
		if !slices.Contains([]string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}, c.SASLMechanism) {
			return errors.InvalidConfig("unsupported SASL mechanism " + c.SASLMechanism)
		}
		if c.Username == "" {
			return errors.InvalidConfig("SASL username is required")
		}
	}
	return nil
}
