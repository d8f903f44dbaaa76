package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// Hash is a deterministic, model-free embedder for tests and local
// development. Similar only to identical text, but stable across runs and
// needs no running model server.
type Hash struct {
	dimensions int
}

func NewHash(dimensions int) *Hash {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &Hash{dimensions: dimensions}
}

func (h *Hash) Embed(ctx context.Context, text string) ([]float32, error) {
	hasher := fnv.New64a()
	hasher.Write([]byte(text))
	seed := hasher.Sum64()

	embedding := make([]float32, h.dimensions)
	for i := 0; i < h.dimensions; i++ {
		// LCG seeded by the text hash keeps the vector deterministic.
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

func (h *Hash) Dimensions() int {
	return h.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
