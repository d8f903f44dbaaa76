// Package etl loads source documents, splits them into token-bounded
// chunks, embeds each chunk and upserts the result into the vector
// store.
package etl

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

const upsertBatchSize = 10

type Pipeline struct {
	embedder core.Embedder
	store    core.VectorStore
	chunker  ChunkerConfig
}

func NewPipeline(cfg *config.AppConfig, embedder core.Embedder, store core.VectorStore) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		store:    store,
		chunker: ChunkerConfig{
			MaxTokens:     cfg.ChunkMaxTokens,
			OverlapTokens: cfg.ChunkOverlapTokens,
		},
	}
}

// Run ingests every document under root. Returns the number of chunks
// written to the store.
func (p *Pipeline) Run(ctx context.Context, root string) (int, error) {
	logger := log.FromCtx(ctx)

	docs, err := LoadDocuments(root)
	if err != nil {
		return 0, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		logger.Warn().Str("path", root).Msg("no documents found")
		return 0, nil
	}

	total := 0
	batch := make([]core.Document, 0, upsertBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.store.Upsert(ctx, batch); err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, doc := range docs {
		chunks := ChunkText(doc.Content, p.chunker)
		logger.Info().
			Str("source", doc.Source).
			Int("chunk_count", len(chunks)).
			Msg("ingesting document")

		for _, chunk := range chunks {
			emb, err := p.embedder.Embed(ctx, chunk.Text)
			if err != nil {
				return total, fmt.Errorf("embed chunk %d of %s: %w", chunk.Index, doc.Source, err)
			}

			batch = append(batch, core.Document{
				ID:        uuid.NewString(),
				Source:    doc.Source,
				Content:   chunk.Text,
				Embedding: emb,
			})
			if len(batch) == upsertBatchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}

	logger.Info().
		Int("document_count", len(docs)).
		Int("chunk_count", total).
		Msg("ingestion complete")

	return total, nil
}
