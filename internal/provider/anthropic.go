package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicProvider implements Provider for the Anthropic messages API.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" || cfg.Model == DefaultModel {
		cfg.Model = anthropicDefaultModel
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}

	return &AnthropicProvider{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	model := req.Model
	if model == "" || model == DefaultModel {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 1536
	}

	msgReq := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		System:    req.SystemPrompt,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(req.UserPrompt)},
		MaxTokens: maxTokens,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		msgReq.Temperature = &t
	}
	if req.TopP > 0 {
		tp := req.TopP
		msgReq.TopP = &tp
	}

	resp, err := p.client.CreateMessages(ctx, msgReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("anthropic API error: %w", err)
	}

	text := resp.GetFirstContentText()
	if strings.TrimSpace(text) == "" {
		return ChatResponse{}, fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	return ChatResponse{
		Content:      text,
		Model:        string(resp.Model),
		FinishReason: string(resp.StopReason),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
