package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/sahayak/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, eventRepo)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewChatProvider creates a ChatProvider from configuration, wrapped
// with event logging. Streaming function calling is served by the
// Gemini backend; the mock provider is available for tests and offline
// use.
func NewChatProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (ChatProvider, error) {
	switch cfg.Provider {
	case "gemini":
		base, err := NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return WithChatLogging(base, eventRepo), nil
	case "mock":
		return NewMockChatProvider(), nil
	default:
		return nil, fmt.Errorf("provider %q does not support streaming tool routing", cfg.Provider)
	}
}

// NewImageProvider creates an ImageProvider from configuration, wrapped
// with event logging.
func NewImageProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (ImageProvider, error) {
	switch cfg.Provider {
	case "gemini":
		base, err := NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return WithImageLogging(base, eventRepo), nil
	case "mock":
		return NewMockImageProvider(), nil
	default:
		return nil, fmt.Errorf("provider %q does not support image generation", cfg.Provider)
	}
}
