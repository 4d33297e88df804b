package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/HNS-06/Skye-assistant/internal/api"
	"github.com/HNS-06/Skye-assistant/internal/config"
)

// LLMAnswer answers encyclopedia questions with a chat model.
type LLMAnswer struct {
	provider api.Provider
	model    config.ModelConfig
}

func NewLLMAnswer(provider api.Provider, model config.ModelConfig) *LLMAnswer {
	return &LLMAnswer{provider: provider, model: model}
}

func (l *LLMAnswer) Query(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrNotFound
	}

	resp, err := l.provider.SendMessage(ctx, api.MessageRequest{
		System:      l.model.SystemPrompt,
		Messages:    []api.Message{{Role: "user", Content: "Tell me briefly about " + topic + "."}},
		Model:       l.model.Name,
		MaxTokens:   l.model.MaxTokens,
		Temperature: l.model.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s answer failed: %w", l.provider.Name(), err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", ErrNotFound
	}
	return Trim(answer, SpokenSummaryLimit*2), nil
}
