package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ragchat/pkg/log"
)

type OllamaConfig struct {
	BaseURL   string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	ChatModel string `env:"OLLAMA_CHAT_MODEL" envDefault:"qwen3:8b"`

	// Sampling options forwarded to /api/chat
	Temperature   float64 `env:"OLLAMA_CHAT_TEMPERATURE" envDefault:"0.6"`
	TopP          float64 `env:"OLLAMA_CHAT_TOP_P" envDefault:"0.95"`
	TopK          int     `env:"OLLAMA_CHAT_TOP_K" envDefault:"20"`
	RepeatPenalty float64 `env:"OLLAMA_CHAT_REPEAT_PENALTY" envDefault:"1.5"`
	Think         bool    `env:"OLLAMA_CHAT_THINK" envDefault:"false"`

	EmbeddingModel      string `env:"OLLAMA_EMBEDDING_MODEL" envDefault:"nomic-embed-text"`
	EmbeddingDimensions int    `env:"OLLAMA_EMBEDDING_DIMENSIONS" envDefault:"768"`
}

func NewOllamaConfig(ctx context.Context) *OllamaConfig {
	c := &OllamaConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Ollama config")
	}
	return c
}
