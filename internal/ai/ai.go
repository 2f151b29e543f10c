package ai

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/config"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

// New builds the analyzer selected by cfg.Provider. It returns nil when no
// provider is configured. A non-nil client enables the Redis cache.
func New(ctx context.Context, cfg config.AIConfig, client *redis.Client) (domain.Analyzer, error) {
	var generator Generator
	switch cfg.Provider {
	case config.AIProviderGemini:
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		generator = g
	case config.AIProviderOpenAI:
		g, err := NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		generator = g
	case config.AIProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}

	var analyzer domain.Analyzer = NewPromptAnalyzer(cfg.Provider, generator)
	if client != nil && cfg.CacheTTL > 0 {
		analyzer = NewCachedAnalyzer(analyzer, client, cfg.CacheTTL, cfg.Provider+":"+generator.Model())
	}
	return analyzer, nil
}
