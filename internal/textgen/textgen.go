// Package textgen adapts remote language models to a single prompt-in, text-out call.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"portfolioapi/internal/config"
)

// ErrMissingCredential is returned when a provider needs a key that is not configured.
var ErrMissingCredential = errors.New("missing credential")

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options are shared by every provider.
type Options struct {
	Model       string
	Temperature float64
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.AssistantConfig) (Generator, error) {
	opts := Options{Model: cfg.Model, Temperature: cfg.Temperature}
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingCredential)
		}
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, opts)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingCredential)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, opts), nil
	case "ollama":
		return NewOllama(cfg.OllamaURL, opts), nil
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// httpClient propagates trace context to HTTP providers.
var httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
