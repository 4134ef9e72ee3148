package transform

import (
	"context"
	"fmt"

	"github.com/dgallion1/doctransform/internal/config"
)

// New builds the Transformer selected by cfg.Provider. The configuration is
// validated first so a missing credential fails before any document work.
func New(ctx context.Context, cfg config.Config) (Transformer, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model, cfg.LLMTimeout), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Model, cfg.LLMTimeout), nil
	case "ollama":
		return NewOllamaClient(cfg.OllamaBaseURL, cfg.Model, cfg.LLMTimeout), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
