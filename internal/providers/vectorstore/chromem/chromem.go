// Package chromem backs the vector store with chromem-go, an embedded
// pure-Go vector database. Embeddings are computed by our own embedder
// and handed over ready-made, so no embedding function is registered.
package chromem

import (
	"context"
	"fmt"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/sandevgo/ragchat/internal/core"
)

const collectionName = "document_chunks"

type Store struct {
	collection *chromemgo.Collection
}

func New() (*Store, error) {
	db := chromemgo.NewDB()

	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{collection: col}, nil
}

func (s *Store) Upsert(ctx context.Context, docs []core.Document) error {
	for _, doc := range docs {
		err := s.collection.AddDocument(ctx, chromemgo.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Embedding,
			Metadata:  map[string]string{"source": doc.Source},
		})
		if err != nil {
			return fmt.Errorf("add document %s: %w", doc.ID, err)
		}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]core.Fragment, error) {
	// chromem rejects nResults larger than the collection.
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	fragments := make([]core.Fragment, 0, len(results))
	for _, res := range results {
		fragments = append(fragments, core.Fragment{
			Content: res.Content,
			Source:  res.Metadata["source"],
			Score:   res.Similarity,
		})
	}
	return fragments, nil
}

func (s *Store) Close() error {
	return nil
}
