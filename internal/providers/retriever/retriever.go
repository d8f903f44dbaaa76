// Package retriever maps a query string to ranked context fragments by
// embedding the query and searching the vector store.
package retriever

import (
	"context"
	"fmt"

	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

type Retriever struct {
	embedder core.Embedder
	store    core.VectorStore
}

func New(embedder core.Embedder, store core.VectorStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve returns up to k fragments relevant to the query, ranked best
// first by the underlying store. The ordering is preserved as returned.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]core.Fragment, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	fragments, err := r.store.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Int("fragment_count", len(fragments)).
		Msg("retrieved fragments")

	return fragments, nil
}
