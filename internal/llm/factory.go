package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/wrongbook/internal/logger"
	"github.com/abhisek/wrongbook/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller -> retry -> logging -> base. eventRepo may be nil to skip event
// recording.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		base = WithLogging(base, cfg.Provider, eventRepo, log)
	}
	return WithRetry(base, cfg.Retry), nil
}
