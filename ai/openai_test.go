package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DachengChen/paiSchema/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "model this", body.Messages[1].Content)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"done"}}]}`)
	}))
	defer srv.Close()

	g, err := NewOpenAI(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test"}, nil)
	require.NoError(t, err)
	text, err := g.Generate(context.Background(), "model this")
	require.NoError(t, err)
	assert.Equal(t, "done", text)
}

func TestOpenAIErrors(t *testing.T) {
	_, err := NewOpenAI(config.OpenAIConfig{}, nil)
	require.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer srv.Close()

	g, err := NewOpenAI(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "sk"}, nil)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "p")
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(config.AIConfig{Provider: "placeholder"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", g.Name())

	g, err = NewGenerator(config.AIConfig{Provider: "ollama", Ollama: config.OllamaConfig{Model: "llama3.2", Stream: true}}, nil)
	require.NoError(t, err)
	assert.Contains(t, g.Name(), "llama3.2")

	_, err = NewGenerator(config.AIConfig{Provider: "openai"}, nil)
	require.Error(t, err)

	_, err = NewGenerator(config.AIConfig{Provider: "bard"}, nil)
	require.Error(t, err)
}

func TestPlaceholderHonorsContext(t *testing.T) {
	p := NewPlaceholder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, "p")
	require.ErrorIs(t, err, context.Canceled)

	text, err := (&Placeholder{}).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Contains(t, text, `"tables"`)
	assert.Contains(t, text, "CREATE TABLE orders")
}
