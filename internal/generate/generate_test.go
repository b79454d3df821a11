// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/agebooks/pkg/types"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider types.Provider
		want     types.Provider
	}{
		{"default is gemini", "", types.ProviderGemini},
		{"gemini", types.ProviderGemini, types.ProviderGemini},
		{"claude", types.ProviderClaude, types.ProviderClaude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(types.GenerationConfig{
				AIConfig: types.AIConfig{APIKey: "k"},
				Provider: tt.provider,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Provider)
			assert.NotEmpty(t, b.Model())
		})
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(types.GenerationConfig{Provider: "openai", AIConfig: types.AIConfig{APIKey: "k"}})
	assert.ErrorContains(t, err, "unsupported provider")

	_, err = New(types.GenerationConfig{Provider: types.ProviderGemini})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(types.GenerationConfig{Provider: types.ProviderClaude})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClaudeGenerate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), "path = %s", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "十三歳という年齢は"}, {"type": "text", "text": "特別です。"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	c, err := NewClaude(types.AIConfig{APIKey: "test-key", Model: "claude-test", BaseURL: srv.URL}, 0)
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "プロンプト")
	require.NoError(t, err)
	assert.Equal(t, "十三歳という年齢は特別です。", text)
	assert.Equal(t, "claude-test", gotBody["model"])
	assert.EqualValues(t, defaultMaxTokens, gotBody["max_tokens"])
}

func TestClaudeGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"prompt is too long"}}`)
	}))
	defer srv.Close()

	c, err := NewClaude(types.AIConfig{APIKey: "k", BaseURL: srv.URL}, 100)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "p")
	require.Error(t, err)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.ProviderClaude, genErr.Provider)
	assert.Equal(t, genErr.Message, err.Error())
	assert.Contains(t, genErr.Message, "prompt is too long")
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "年齢別の出版傾向について"}]},
				"finishReason": "STOP"
			}]
		}`)
	}))
	defer srv.Close()

	g, err := NewGemini(types.AIConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiModel, g.Model())

	text, err := g.Generate(context.Background(), "プロンプト")
	require.NoError(t, err)
	assert.Equal(t, "年齢別の出版傾向について", text)
	assert.Contains(t, gotPath, defaultGeminiModel+":generateContent")
}

func TestGeminiGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	g, err := NewGemini(types.AIConfig{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.ProviderGemini, genErr.Provider)
	assert.Contains(t, genErr.Message, "API key not valid")
}

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) { return s.text, s.err }
func (s stubGenerator) Model() string                                    { return "stub" }

func TestBackendPassesErrorsThrough(t *testing.T) {
	want := &GenerationError{Provider: types.ProviderGemini, Message: "quota exceeded"}
	b := &Backend{Provider: types.ProviderGemini, generator: stubGenerator{err: want}}

	_, err := b.Generate(context.Background(), "p")
	assert.Same(t, want, err)

	b = &Backend{Provider: types.ProviderGemini, generator: stubGenerator{text: "ok"}}
	text, err := b.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "stub", b.Model())
}
