package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultFormat             = string(FormatCSV)
	DefaultSQLiteTable        = "recording"
	DefaultMaxSkippedExamples = 5
	DefaultLogLevel           = "info"
	DefaultLogEncoding        = "console"
	DefaultWebhookTimeout     = 10 * time.Second
)

// Environment variable names.
const (
	EnvFormat             = "ASCFLAT_FORMAT"
	EnvLogLevel           = "ASCFLAT_LOG_LEVEL"
	EnvMaxSkippedExamples = "ASCFLAT_MAX_SKIPPED_EXAMPLES"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:             DefaultFormat,
		SQLiteTable:        DefaultSQLiteTable,
		MaxSkippedExamples: DefaultMaxSkippedExamples,
		Log: LogConfig{
			Level:    DefaultLogLevel,
			Encoding: DefaultLogEncoding,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if format := os.Getenv(EnvFormat); format != "" {
		c.Format = format
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if n, err := strconv.Atoi(os.Getenv(EnvMaxSkippedExamples)); err == nil {
		c.MaxSkippedExamples = n
	}
}
