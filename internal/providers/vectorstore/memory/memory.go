// Package memory is a brute-force in-process vector store. Good enough
// for small corpora and the default for local development: no external
// services, exact cosine search.
package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/sandevgo/ragchat/internal/core"
)

type Store struct {
	mu   sync.RWMutex
	docs []core.Document
}

func New() *Store {
	return &Store{}
}

func (s *Store) Upsert(ctx context.Context, docs []core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return errors.New("document without embedding")
		}
		if i := s.indexOf(doc.ID); i >= 0 {
			s.docs[i] = doc
			continue
		}
		s.docs = append(s.docs, doc)
	}
	return nil
}

// Search returns the k nearest documents by cosine similarity, best first.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]core.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.docs) == 0 {
		return nil, nil
	}

	fragments := make([]core.Fragment, 0, len(s.docs))
	for _, doc := range s.docs {
		fragments = append(fragments, core.Fragment{
			Content: doc.Content,
			Source:  doc.Source,
			Score:   cosine(embedding, doc.Embedding),
		})
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].Score > fragments[j].Score
	})

	if k > len(fragments) {
		k = len(fragments)
	}
	return fragments[:k], nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, doc := range s.docs {
		if doc.ID == id {
			return i
		}
	}
	return -1
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
