package embed

import (
	"context"
	"fmt"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

func NewEmbedder(ctx context.Context, cfg *config.AppConfig) (core.Embedder, error) {
	log.FromCtx(ctx).Info().
		Str("embedder", cfg.Embedder).
		Msg("starting embedder")

	switch cfg.Embedder {
	case "ollama":
		return NewOllama(config.NewOllamaConfig(ctx)), nil
	case "hash":
		return NewHash(384), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder)
	}
}
