// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by sources that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "agebooks/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the retries on HTTP 429 responses (0 uses the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SourceFormat identifies how a record source is encoded.
type SourceFormat string

const (
	FormatAuto SourceFormat = ""
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
)

// SourceConfig holds settings for fetching bibliographic rows.
type SourceConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Inputs lists file paths or http(s) URLs of sheet exports.
	Inputs []string `json:"inputs" yaml:"inputs" mapstructure:"inputs"`

	// Format forces the encoding; empty detects it from the extension.
	Format SourceFormat `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`

	// Sheet selects a worksheet by name for XLSX inputs (default: first sheet).
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`

	// Columns maps the pipeline's fields to sheet headers.
	Columns Columns `json:"columns" yaml:"columns" mapstructure:"columns"`
}

// Provider identifies the generative-text backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

// AIConfig holds shared settings for backends that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the API endpoint; empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// GenerationConfig holds settings for article generation.
type GenerationConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the backend: gemini or claude.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// MaxTokens caps the generated output (Claude only).
	MaxTokens int64 `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds a single generation call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ArchiveConfig holds settings for the article archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// DecadeConfig bounds the years accepted when deriving decades.
// Zero values disable the bound.
type DecadeConfig struct {
	MinYear int `json:"min_year" yaml:"min_year" mapstructure:"min_year"`
	MaxYear int `json:"max_year" yaml:"max_year" mapstructure:"max_year"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" for human-readable output, anything else for JSON.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings of the CLI.
type Config struct {
	Source     SourceConfig     `json:"source" yaml:"source" mapstructure:"source"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive" mapstructure:"archive"`
	Decade     DecadeConfig     `json:"decade" yaml:"decade" mapstructure:"decade"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
