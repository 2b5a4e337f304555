package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zhouzirui/poker-advisor/backend/internal/config"
)

// Completer performs a single chat completion against a downstream provider.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (Completion, error)
}

// NewCompleter 根据 LLM_PROVIDER 创建对应的下游客户端。
// Missing credentials never fail here: the returned Completer reports
// ErrMissingAPIKey per request instead.
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case config.ProviderOpenRouter:
		return NewCompatibleClient(CompatibleConfig{
			Name:    config.ProviderOpenRouter,
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey(),
			Headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.AppTitle,
			},
			HTTPClient: httpClient,
		}), nil
	case config.ProviderHuggingFace:
		return NewCompatibleClient(CompatibleConfig{
			Name:       config.ProviderHuggingFace,
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey(),
			HTTPClient: httpClient,
		}), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey(), cfg.BaseURL, httpClient), nil
	case config.ProviderArk:
		if !cfg.Ark.Enabled() {
			return NewArkClient(nil), nil
		}
		chatModel, err := cfg.NewArkChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create ark chat model: %w", err)
		}
		return NewArkClient(chatModel), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
