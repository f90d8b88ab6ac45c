// Package config provides configuration loading and validation for ascflat.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Input is the ASC recording to convert. The CLI argument takes precedence.
	Input string `yaml:"input,omitempty"`

	// Output is the destination path. Empty or "-" means stdout.
	Output string `yaml:"output,omitempty"`

	// Format selects the table writer (csv, json, sqlite).
	Format string `yaml:"format,omitempty"`

	// SQLiteTable is the table created by the sqlite writer.
	SQLiteTable string `yaml:"sqlite_table,omitempty"`

	// MaxSkippedExamples limits how many skipped lines the summary lists.
	MaxSkippedExamples int `yaml:"max_skipped_examples,omitempty"`

	Log      LogConfig       `yaml:"log,omitempty"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputFormat enumerates the supported table writers.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatJSON   OutputFormat = "json"
	FormatSQLite OutputFormat = "sqlite"
)

// OutputFormatEnum returns the format as an OutputFormat.
func (c *Config) OutputFormatEnum() OutputFormat {
	return OutputFormat(c.Format)
}

// WritesToStdout reports whether the table goes to standard output.
func (c *Config) WritesToStdout() bool {
	return c.Output == "" || c.Output == "-"
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Encoding is console or json.
	Encoding string `yaml:"encoding,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSkipped fires only when lines were skipped (default).
	WebhookTriggerOnSkipped WebhookTrigger = "on_skipped"
	// WebhookTriggerAlways fires after every conversion.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint notified with the conversion summary.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_skipped" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
