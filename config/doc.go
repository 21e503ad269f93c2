// Package config loads service configuration for streamkit tools.
//
// Values come from a config.yml found next to the command (./cmd/<name>/),
// under ./config/ or in the working directory, then from environment
// variables, then from a .env file. Nested keys can be set from the
// environment with underscores: LOGGING_LEVEL=debug sets logging.level.
//
//	var cfg MyConfig
//	err := config.LoadConfig("streamstat", &cfg)
package config
