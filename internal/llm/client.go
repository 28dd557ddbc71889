// Package llm holds the chat-completion clients used for delegated price
// extraction.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingKey  = errors.New("missing API key")
	ErrRejectedKey = errors.New("API key rejected")
)

type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

type Provider string

const (
	None       Provider = "none"
	OpenRouter Provider = "openrouter"
	OpenAI     Provider = "openai"
	Claude     Provider = "claude"
	Gemini     Provider = "gemini"
)

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "", None:
		return None, nil
	case OpenRouter, OpenAI, Claude, Gemini:
		return p, nil
	default:
		return "", fmt.Errorf("unknown extractor provider %q", s)
	}
}

type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Pause    time.Duration
}

// New returns nil, nil for the "none" provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	var (
		c   Client
		err error
	)
	switch cfg.Provider {
	case None, "":
		return nil, nil
	case OpenRouter:
		base := cfg.BaseURL
		if base == "" {
			base = OpenRouterURL
		}
		model := cfg.Model
		if model == "" {
			model = "openai/gpt-3.5-turbo"
		}
		c, err = NewOpenAIClient(base, cfg.APIKey, model, cfg.Timeout)
	case OpenAI:
		c, err = NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	case Claude:
		c, err = NewClaudeClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	case Gemini:
		c, err = NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown extractor provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, err)
	}
	return NewPaced(c, cfg.Pause), nil
}
