// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads CLI settings from agebooks.yaml, AGEBOOKS_*
// environment variables, and command-line flags, and initializes the
// global logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/agebooks/pkg/types"
)

// EnvPrefix is prepended to every environment variable, e.g.
// AGEBOOKS_GENERATION_PROVIDER.
const EnvPrefix = "AGEBOOKS"

const configName = "agebooks"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"input":         "source.inputs",
	"sheet":         "source.sheet",
	"source-format": "source.format",
	"user-agent":    "source.user_agent",
	"provider":      "generation.provider",
	"model":         "generation.model",
	"max-tokens":    "generation.max_tokens",
	"timeout":       "generation.timeout",
	"archive-dir":   "archive.dir",
	"min-year":      "decade.min_year",
	"max-year":      "decade.max_year",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

func setDefaults(v *viper.Viper) {
	cols := types.DefaultColumns()

	v.SetDefault("source.inputs", []string{})
	v.SetDefault("source.format", "")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("source.user_agent", "agebooks/0.1")
	v.SetDefault("source.max_retries", 5)
	v.SetDefault("source.columns.title", cols.Title)
	v.SetDefault("source.columns.author", cols.Author)
	v.SetDefault("source.columns.publish_date", cols.PublishDate)
	v.SetDefault("source.columns.subject", cols.Subject)

	v.SetDefault("generation.provider", string(types.ProviderGemini))
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.base_url", "")
	v.SetDefault("generation.max_tokens", 4096)
	v.SetDefault("generation.timeout", 2*time.Minute)

	v.SetDefault("archive.dir", ".agebooks")

	v.SetDefault("decade.min_year", 0)
	v.SetDefault("decade.max_year", 0)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Load reads configuration. cfgFile, when set, names the config file;
// otherwise agebooks.yaml is looked up in the working directory and in
// ~/.config/agebooks/. A missing config file is not an error. Flags in
// flags that correspond to configuration keys override file and
// environment values when set on the command line.
func Load(cfgFile string, flags *pflag.FlagSet) (*types.Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		zap.L().Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and bounds.
func Validate(cfg *types.Config) error {
	switch cfg.Source.Format {
	case types.FormatAuto, types.FormatCSV, types.FormatXLSX:
	default:
		return fmt.Errorf("config: source.format must be csv or xlsx, got %q", cfg.Source.Format)
	}
	switch cfg.Generation.Provider {
	case "", types.ProviderGemini, types.ProviderClaude:
	default:
		return fmt.Errorf("config: generation.provider must be gemini or claude, got %q", cfg.Generation.Provider)
	}
	if cfg.Generation.MaxTokens < 0 {
		return fmt.Errorf("config: generation.max_tokens must not be negative")
	}
	d := cfg.Decade
	if d.MinYear != 0 && d.MaxYear != 0 && d.MinYear > d.MaxYear {
		return fmt.Errorf("config: decade.min_year %d is after decade.max_year %d", d.MinYear, d.MaxYear)
	}
	return nil
}

// InitLogger initializes the global zap logger. Format "console" selects the
// development encoder; anything else logs JSON.
func InitLogger(cfg types.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("config: parse log level: %w", err)
	}
	zapCfg.Level.SetLevel(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("config: build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}
