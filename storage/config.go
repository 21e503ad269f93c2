package storage

import (
	"github.com/kbukum/streamkit/errors"
)

// Provider names.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Config selects and configures a backend.
type Config struct {
	// Provider is "local" or "s3".
	Provider string `mapstructure:"provider"`

	// BasePath is the root directory of the local provider.
	BasePath string `mapstructure:"base_path"`

	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	// Endpoint points at an S3-compatible service (MinIO, localstack).
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BasePath == "" {
		c.BasePath = "."
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

// Validate checks the fields the selected provider needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.InvalidConfig("storage base_path is required for the local provider")
		}
	case ProviderS3:
		if c.Bucket == "" {
			return errors.InvalidConfig("storage bucket is required for the s3 provider")
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			return errors.InvalidConfig("storage access_key and secret_key must be set together")
		}
	default:
		return errors.InvalidConfig("storage provider " + c.Provider + " is not supported")
	}
	return nil
}
