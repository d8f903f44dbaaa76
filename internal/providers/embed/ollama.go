package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/pkg/retry"
)

// Ollama embeds text through the /api/embed endpoint. Calls are retried
// with backoff; embedding happens off the request hot path (ETL) or is
// degradable (retrieval), so a few retries are cheap.
type Ollama struct {
	baseURL    string
	model      string
	dimensions int
	client     *http.Client
	retrier    *retry.Retrier
}

func NewOllama(cfg *config.OllamaConfig) *Ollama {
	return &Ollama{
		baseURL:    cfg.BaseURL,
		model:      cfg.EmbeddingModel,
		dimensions: cfg.EmbeddingDimensions,
		client:     &http.Client{Timeout: 60 * time.Second},
		retrier:    retry.NewDefaultRetrier(),
	}
}

func (e *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32

	err := e.retrier.Do(ctx, func() error {
		vec, err := e.embedOnce(ctx, text)
		if err != nil {
			return err
		}
		embedding = vec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	return embedding, nil
}

func (e *Ollama) embedOnce(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embeddings response")
	}
	return result.Embeddings[0], nil
}

func (e *Ollama) Dimensions() int {
	return e.dimensions
}
