package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
)

type Ollama struct {
	baseProvider
	cfg *config.OllamaConfig
}

func NewOllama(cfg *config.OllamaConfig) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(cfg.BaseURL, "", cfg.ChatModel),
		cfg:          cfg,
	}
}

func (o *Ollama) Chat(ctx context.Context, messages []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": messages,
		"stream":   false,
		"think":    o.cfg.Think,
		"options": map[string]any{
			"temperature":    o.cfg.Temperature,
			"top_p":          o.cfg.TopP,
			"top_k":          o.cfg.TopK,
			"repeat_penalty": o.cfg.RepeatPenalty,
		},
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/api/chat", payload, nil)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}

	return core.Message{Role: core.RoleAssistant, Content: result.Message.Content}, nil
}
