// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate provides the generative-text backends that write
// articles from prompts: Google Gemini and Anthropic Claude.
package generate

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/agebooks/pkg/types"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultClaudeModel = "claude-sonnet-4-5-20250929"
	defaultMaxTokens   = 4096
)

// GenerationError reports a failed generation call. Message is meant to be
// shown to the user as is.
type GenerationError struct {
	Provider types.Provider
	Message  string
	Err      error
}

func (e *GenerationError) Error() string { return e.Message }

func (e *GenerationError) Unwrap() error { return e.Err }

func generationError(p types.Provider, format string, err error) *GenerationError {
	msg := fmt.Sprintf(format, err)
	return &GenerationError{Provider: p, Message: msg, Err: err}
}

// New returns the backend selected by cfg.Provider. An empty provider
// selects Gemini.
func New(cfg types.GenerationConfig) (*Backend, error) {
	switch cfg.Provider {
	case types.ProviderGemini, "":
		g, err := NewGemini(cfg.AIConfig)
		if err != nil {
			return nil, err
		}
		return &Backend{Provider: types.ProviderGemini, generator: g}, nil
	case types.ProviderClaude:
		c, err := NewClaude(cfg.AIConfig, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return &Backend{Provider: types.ProviderClaude, generator: c}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q: use gemini or claude", cfg.Provider)
	}
}

// textGenerator is implemented by each provider client.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Backend wraps a provider client with logging.
type Backend struct {
	Provider  types.Provider
	generator textGenerator
}

// Model returns the model identifier used for generation.
func (b *Backend) Model() string { return b.generator.Model() }

// Generate returns the article text for prompt.
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	log := zap.L().With(
		zap.String("provider", string(b.Provider)),
		zap.String("model", b.Model()),
	)
	start := time.Now()
	log.Debug("generating article", zap.Int("prompt_chars", utf8.RuneCountInString(prompt)))

	text, err := b.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn("generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", err
	}

	log.Info("article generated",
		zap.Int("article_chars", utf8.RuneCountInString(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}
