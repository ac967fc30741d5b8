// Package llm wraps the remote model behind a single prompt-in, text-out call.
package llm

import (
	"context"
	"fmt"

	"github.com/alantheprice/shield/pkg/configuration"
)

// Client sends a prompt to a model and returns the completion text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewClient builds the client for cfg.Provider. Calls made through it are
// bounded by cfg.Timeout().
func NewClient(cfg configuration.Config) (Client, error) {
	switch cfg.Provider {
	case configuration.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("API key is required for Gemini provider")
		}
		return NewGeminiClient(cfg.APIKey, cfg.Model, cfg.Timeout()), nil
	case configuration.ProviderOllama:
		c, err := NewOllamaClient(cfg.Model, cfg.Timeout())
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
