package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/DachengChen/paiSchema/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) Name() string { return "counting" }

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return "answer to " + prompt, nil
}

func TestCachedReusesAnswers(t *testing.T) {
	next := &countingGenerator{}
	c, err := NewCached(next, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "counting, cached", c.Name())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := c.Generate(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "answer to a", got)
	}
	assert.Equal(t, 1, next.calls)

	_, _ = c.Generate(ctx, "b")
	_, _ = c.Generate(ctx, "c")
	assert.Equal(t, 2, c.Len())

	// "a" was evicted
	_, _ = c.Generate(ctx, "a")
	assert.Equal(t, 4, next.calls)
}

func TestCachedSkipsFailures(t *testing.T) {
	next := &countingGenerator{err: errors.New("boom")}
	c, err := NewCached(next, 4, nil)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "a")
	require.Error(t, err)
	_, err = c.Generate(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Zero(t, c.Len())
}

func TestNewGeneratorCacheSize(t *testing.T) {
	g, err := NewGenerator(config.AIConfig{Provider: "placeholder", CacheSize: 8}, nil)
	require.NoError(t, err)
	_, ok := g.(*Cached)
	assert.True(t, ok)
	assert.Equal(t, "placeholder, cached", g.Name())

	_, err = NewCached(NewPlaceholder(), 0, nil)
	require.Error(t, err)
}
