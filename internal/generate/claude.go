// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/agebooks/pkg/types"
)

// Claude generates articles with the Anthropic Messages API.
type Claude struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// NewClaude creates a Claude backend. cfg.APIKey is required; maxTokens
// defaults to 4096 when not positive.
func NewClaude(cfg types.AIConfig, maxTokens int64) (*Claude, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("claude: %w", ErrMissingAPIKey)
	}

	model := cfg.Model
	if model == "" {
		model = defaultClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		client:    sdk.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Model returns the Claude model identifier.
func (c *Claude) Model() string { return c.model }

// Generate sends prompt as a single user message and joins the text blocks
// of the reply.
func (c *Claude) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", generationError(types.ProviderClaude, "error while generating the article: %v", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		b.WriteString(block.Text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", &GenerationError{
			Provider: types.ProviderClaude,
			Message:  "article generation failed: Claude returned no text",
		}
	}
	return text, nil
}
