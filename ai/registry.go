package ai

import (
	"fmt"
	"log/slog"

	"github.com/DachengChen/paiSchema/config"
)

// SupportedProviders lists available provider names for display.
var SupportedProviders = []string{"ollama", "openai", "placeholder"}

// NewGenerator creates a Generator from the application config. A
// positive cfg.CacheSize wraps it in a Cached generator.
func NewGenerator(cfg config.AIConfig, logger *slog.Logger) (Generator, error) {
	gen, err := newProvider(cfg, logger)
	if err != nil || cfg.CacheSize <= 0 {
		return gen, err
	}
	return NewCached(gen, cfg.CacheSize, logger)
}

func newProvider(cfg config.AIConfig, logger *slog.Logger) (Generator, error) {
	switch cfg.Provider {
	case "ollama", "":
		return NewOllama(cfg.Ollama, logger), nil

	case "openai":
		o, err := NewOpenAI(cfg.OpenAI, logger)
		if err != nil {
			return nil, err
		}
		return o, nil

	case "placeholder":
		return NewPlaceholder(), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q. Supported: ollama, openai, placeholder", cfg.Provider)
	}
}
