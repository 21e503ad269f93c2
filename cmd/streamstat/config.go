package main

import (
	"github.com/kbukum/streamkit/config"
	"github.com/kbukum/streamkit/validation"
)

// Config is the streamstat configuration file.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Top TopConfig `yaml:"top" mapstructure:"top"`
	Sum SumConfig `yaml:"sum" mapstructure:"sum"`
}

// TopConfig tunes the top command.
type TopConfig struct {
	// N is how many lines to print; 0 prints all.
	N int `yaml:"n" mapstructure:"n" validate:"gte=0"`
	// SkipHeader drops this many leading lines, before normalization.
	SkipHeader int `yaml:"skip_header" mapstructure:"skip_header" validate:"gte=0"`
	// MinLength drops normalized lines shorter than this many bytes. Blank
	// lines are always dropped.
	MinLength int  `yaml:"min_length" mapstructure:"min_length" validate:"gte=0"`
	Lowercase bool `yaml:"lowercase" mapstructure:"lowercase"`
}

// SumConfig tunes the sum command.
type SumConfig struct {
	// Strict fails on the first line that is not a number instead of skipping it.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "streamstat"
	}
	c.ServiceConfig.ApplyDefaults()
}

// Validate checks the service section and the command sections.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}

const (
	defaultTopN      = 10
	defaultMinLength = 1
)

// defaults apply when config.yml is absent or leaves a key unset. Flags
// share them so --help shows the effective value.
var defaults = map[string]any{
	"top.n":          defaultTopN,
	"top.min_length": defaultMinLength,
}

func loadConfig(path string) (*Config, error) {
	opts := []config.LoaderOption{config.WithDefaults(defaults)}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	cfg := &Config{}
	if err := config.LoadConfig("streamstat", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
