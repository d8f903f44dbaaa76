package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, messages []Message) (Message, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type VectorStore interface {
	Upsert(ctx context.Context, docs []Document) error
	Search(ctx context.Context, embedding []float32, k int) ([]Fragment, error)
	Close() error
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Fragment, error)
}
