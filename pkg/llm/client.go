// Package llm provides clients for generative-language APIs.
package llm

import (
	"context"
	"errors"
	"fmt"

	"elderease/internal/config"
	"elderease/internal/model"
)

// ErrEmptyReply is returned when the API answered without any text.
var ErrEmptyReply = errors.New("llm returned an empty reply")

// GenerationParams controls sampling. Zero values are left to the provider default.
type GenerationParams struct {
	Temperature float32
	TopP        float32
	TopK        int
	MaxTokens   int
}

// Client sends one conversation to a model and returns a single reply.
type Client interface {
	// Chat continues history with message. history must already carry any persona turns.
	Chat(ctx context.Context, history model.History, message string, gen GenerationParams) (string, error)
}

// ParamsFromConfig converts the configured generation settings.
func ParamsFromConfig(cfg config.LLMGenerationConfig) GenerationParams {
	return GenerationParams{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
		MaxTokens:   cfg.MaxTokens,
	}
}

// New creates the client for the configured provider.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiClient(ctx, cfg)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
