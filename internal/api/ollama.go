package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/HNS-06/Skye-assistant/internal/config"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider implements Provider for local Ollama models.
type OllamaProvider struct {
	client  *http.Client
	baseURL string
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg config.OllamaConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60
	}

	return &OllamaProvider{
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		baseURL: baseURL,
	}, nil
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// SendMessage sends a non-streaming chat request to Ollama.
func (p *OllamaProvider) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	ollamaReq := ollamaChatRequest{
		Model:    req.Model,
		Messages: messages,
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		ollamaReq.Options = &ollamaOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Ollama API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(respBody, "error").String(); msg != "" {
			return nil, fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("failed to decode Ollama response: invalid JSON")
	}
	parsed := gjson.ParseBytes(respBody)

	return &MessageResponse{
		Content:    parsed.Get("message.content").String(),
		StopReason: parsed.Get("done_reason").String(),
		Usage: Usage{
			InputTokens:  int(parsed.Get("prompt_eval_count").Int()),
			OutputTokens: int(parsed.Get("eval_count").Int()),
		},
	}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Close releases resources (no-op for Ollama).
func (p *OllamaProvider) Close() error {
	return nil
}
