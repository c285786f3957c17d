package ai

import (
	"context"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps a Generator and keeps recent successful answers keyed by
// prompt. Failed calls are never cached.
type Cached struct {
	next   Generator
	cache  *lru.Cache[string, string]
	logger *slog.Logger
}

var _ Generator = (*Cached)(nil)

// NewCached creates a cache holding at most size answers.
func NewCached(next Generator, size int, logger *slog.Logger) (*Cached, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cached{next: next, cache: c, logger: logger}, nil
}

func (c *Cached) Name() string {
	return c.next.Name() + ", cached"
}

func (c *Cached) Generate(ctx context.Context, prompt string) (string, error) {
	if answer, ok := c.cache.Get(prompt); ok {
		c.logger.Debug("inference cache hit", slog.Int("prompt_len", len(prompt)))
		return answer, nil
	}
	answer, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return answer, err
	}
	c.cache.Add(prompt, answer)
	return answer, nil
}

// Len reports how many answers are cached.
func (c *Cached) Len() int {
	return c.cache.Len()
}
