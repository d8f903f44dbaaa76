//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/internal/providers/embed"
	"github.com/sandevgo/ragchat/internal/providers/llm"
	"github.com/sandevgo/ragchat/pkg/log"
)

func requireOllama(t *testing.T) {
	if os.Getenv("OLLAMA_BASE_URL") == "" {
		t.Skip("Skipping: OLLAMA_BASE_URL not set")
	}
}

func TestOllamaEmbed(t *testing.T) {
	requireOllama(t)

	ctx, flushLog := log.NewContextWithLogger(context.Background(), true)
	defer flushLog()

	embedder, err := embed.NewEmbedder(ctx, config.NewAppConfig(ctx))
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	vec, err := embedder.Embed(ctx, "Hello ragchat")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(vec) == 0 {
		t.Fatal("Generated vector is empty")
	}

	t.Logf("Vector dimensions: %d", len(vec))

	allZeros := true
	for _, v := range vec {
		if v != 0 {
			allZeros = false
			break
		}
	}
	if allZeros {
		t.Fatal("Vector contains all zeros")
	}
}

func TestOllamaChat(t *testing.T) {
	requireOllama(t)

	ctx, flushLog := log.NewContextWithLogger(context.Background(), true)
	defer flushLog()

	provider, err := llm.NewProvider(ctx, config.NewAppConfig(ctx))
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	reply, err := provider.Chat(ctx, []core.Message{
		{Role: core.RoleUser, Content: "Reply with the single word: pong"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if reply.Content == "" {
		t.Fatal("Empty reply content")
	}
	t.Logf("Reply: %s", reply.Content)
}
