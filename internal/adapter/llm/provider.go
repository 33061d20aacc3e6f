package llm

import (
	"fmt"
	"net/http"

	"skillcheck/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel builds the langchaingo model named by cfg.Provider. "openai" also
// covers any OpenAI-compatible endpoint through cfg.Server.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "", "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.Server),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm provider openai requires an api key")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.Server != "" {
			opts = append(opts, openai.WithBaseURL(cfg.Server))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// New wires a Client from configuration.
func New(cfg config.LLMConfig) (*Client, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(model,
		WithTemperature(cfg.Temperature),
		WithTimeout(cfg.Timeout),
		WithRateLimit(cfg.RateLimit),
	), nil
}
