// Package llm talks to hosted language models and extracts JSON from their
// free-form replies.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ErrNotConfigured is returned when the selected provider has no API key
var ErrNotConfigured = errors.New("llm: provider API key not configured")

// Request is a single-turn completion request
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer produces a text completion for a prompt
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// New builds the completer selected by cfg.LLMProvider
func New(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (Completer, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "", ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		}, logger), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.LLMModel,
		}, logger)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLMProvider)
	}
}
