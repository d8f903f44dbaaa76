package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

// NewProvider creates the AIProvider selected by LLM_PROVIDER. Provider
// specific configuration is only parsed for the chosen backend.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.LLMProvider).
		Msg("starting llm provider")

	switch cfg.LLMProvider {
	case "ollama":
		return NewOllama(config.NewOllamaConfig(ctx)), nil
	case "anthropic":
		c := config.NewAnthropicConfig(ctx)
		return NewAnthropic(c.APIKey, c.Model), nil
	case "openai":
		c := config.NewOpenAIConfig(ctx)
		return NewOpenAICompatible(c.BaseURL, c.APIKey, c.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
