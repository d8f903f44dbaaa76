package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ragchat/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"RAGCHAT_RUNTIME_PATH" envDefault:".ragchat"`

	// Provider selection
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"ollama"`
	Embedder    string `env:"EMBEDDER" envDefault:"ollama"`
	VectorStore string `env:"VECTOR_STORE" envDefault:"memory"`

	// Transport flags
	EnableHTTP     bool   `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`

	// Conversation memory
	MaxMessages int `env:"MAX_MESSAGES" envDefault:"20"`

	// RAG
	RetrievalK      int  `env:"RETRIEVAL_K" envDefault:"4"`
	StrictRetrieval bool `env:"STRICT_RETRIEVAL" envDefault:"false"`

	// ETL
	DocumentPath       string `env:"DOCUMENT_PATH" envDefault:"resources/docs"`
	ChunkMaxTokens     int    `env:"CHUNK_MAX_TOKENS" envDefault:"400"`
	ChunkOverlapTokens int    `env:"CHUNK_OVERLAP_TOKENS" envDefault:"50"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetSystemPromptPath() string {
	return filepath.Join(c.RuntimePath, "SYSTEM.md")
}
