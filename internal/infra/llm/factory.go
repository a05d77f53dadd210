package llm

import (
	"context"
	"fmt"

	domain "reminder_assistant_bot/internal/domain/llm"
	"reminder_assistant_bot/internal/infra/config"
)

// NewProvider builds the configured provider. It returns a nil provider, and no error,
// when generation is disabled; callers then always use their deterministic fallback.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (domain.Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Provider {
	case config.LLMProviderOpenRouter:
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Timeout:  cfg.Timeout,
			SiteName: "Tonalli AI",
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.LLMProviderDeepSeek:
		p, err := NewDeepSeekProvider(cfg.APIKey, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.LLMProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
