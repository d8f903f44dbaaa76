package vectorstore

import (
	"context"
	"fmt"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/internal/providers/vectorstore/chromem"
	"github.com/sandevgo/ragchat/internal/providers/vectorstore/memory"
	"github.com/sandevgo/ragchat/internal/providers/vectorstore/pgvector"
	"github.com/sandevgo/ragchat/pkg/log"
)

// NewStore creates the VectorStore selected by VECTOR_STORE. The embedder
// dimension is needed up front by backends with a fixed-width schema.
func NewStore(ctx context.Context, cfg *config.AppConfig, dimensions int) (core.VectorStore, error) {
	log.FromCtx(ctx).Info().
		Str("store", cfg.VectorStore).
		Int("dimensions", dimensions).
		Msg("starting vector store")

	switch cfg.VectorStore {
	case "memory":
		return memory.New(), nil
	case "chromem":
		return chromem.New()
	case "pgvector":
		return pgvector.New(ctx, config.NewPostgresConfig(ctx).DSN(), dimensions)
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore)
	}
}
