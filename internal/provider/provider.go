// Package provider talks to chat-completion backends. The tutor hands it the
// compiled system and user prompts plus per-call generation parameters.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kayz/syllabus/internal/config"
)

// ErrEmptyResponse is returned when a backend answers without text.
var ErrEmptyResponse = errors.New("empty response from provider")

const (
	DefaultModel = "llama-3.1-8b-instant"

	groqDefaultBaseURL   = "https://api.groq.com/openai/v1"
	openaiDefaultBaseURL = "https://api.openai.com/v1"
	openaiDefaultModel   = "gpt-4o-mini"

	anthropicDefaultModel = "claude-3-5-haiku-latest"
)

// ChatRequest is a single system + user exchange. Zero Temperature and TopP
// leave the backend defaults in place.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float32
	TopP         float32
	MaxTokens    int
}

type ChatResponse struct {
	Content      string
	Model        string
	FinishReason string
	InputTokens  int
	OutputTokens int
}

// Provider is implemented by every backend.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// New creates the provider selected by cfg.Provider.
func New(cfg config.AIConfig) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch name {
	case "", "groq":
		return NewOpenAICompatProvider(OpenAICompatConfig{
			ProviderName: "groq",
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			DefaultURL:   groqDefaultBaseURL,
			DefaultModel: DefaultModel,
		})
	case "openai":
		return NewOpenAICompatProvider(OpenAICompatConfig{
			ProviderName: "openai",
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			DefaultURL:   openaiDefaultBaseURL,
			DefaultModel: openaiDefaultModel,
		})
	case "compat":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("compat provider requires base_url")
		}
		return NewOpenAICompatProvider(OpenAICompatConfig{
			ProviderName: "compat",
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			DefaultModel: DefaultModel,
		})
	case "anthropic", "claude":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
