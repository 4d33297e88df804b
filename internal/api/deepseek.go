package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"

	"github.com/HNS-06/Skye-assistant/internal/config"
)

// DeepSeekProvider implements Provider for DeepSeek API.
type DeepSeekProvider struct {
	client deepseek.Client
	config config.DeepSeekConfig
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(cfg config.DeepSeekConfig) (*DeepSeekProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}

	client, err := deepseek.NewClient(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}

	return &DeepSeekProvider{
		client: client,
		config: cfg,
	}, nil
}

// SendMessage sends a message to DeepSeek API and returns the response.
func (p *DeepSeekProvider) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	chatReq := &request.ChatCompletionsRequest{
		Model:       req.Model,
		Messages:    deepseekMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: temperature(req.Temperature),
		Stream:      false,
	}

	resp, err := p.client.CallChatCompletionsChat(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("DeepSeek API request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("DeepSeek API returned no choices")
	}

	return &MessageResponse{
		Content:    resp.Choices[0].Message.Content,
		StopReason: resp.Choices[0].FinishReason,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func deepseekMessages(req MessageRequest) []*request.Message {
	messages := make([]*request.Message, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, &request.Message{
			Role:    "system",
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, &request.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages
}

// temperature returns nil for 0 so the API default applies.
func temperature(t float64) *float32 {
	if t <= 0 {
		return nil
	}
	v := float32(t)
	return &v
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Close releases resources (no-op for DeepSeek).
func (p *DeepSeekProvider) Close() error {
	return nil
}
