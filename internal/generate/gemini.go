// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/agebooks/pkg/types"
)

// ErrMissingAPIKey is returned when a backend is built without credentials.
var ErrMissingAPIKey = errors.New("API key not found: set it in .secrets/, the config file, or the environment")

// Gemini generates articles with the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini backend. cfg.APIKey is required; cfg.Model
// defaults to gemini-2.5-flash.
func NewGemini(cfg types.AIConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Model returns the Gemini model identifier.
func (g *Gemini) Model() string { return g.model }

// Generate sends prompt as a single user turn and returns the response text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", generationError(types.ProviderGemini, "error while generating the article: %v", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &GenerationError{
			Provider: types.ProviderGemini,
			Message:  "article generation failed: Gemini returned no text",
		}
	}
	return text, nil
}
