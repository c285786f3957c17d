package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DachengChen/paiSchema/config"
)

// OpenAI implements Generator for OpenAI-compatible chat completion APIs.
// The prompt is sent as a single user message after a fixed system prompt.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI-compatible generator.
func NewOpenAI(cfg config.OpenAIConfig, logger *slog.Logger) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OpenAI API key not set. Set OPENAI_API_KEY or add it to ~/.paischema/config.yaml")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OpenAI{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}, nil
}

func (o *OpenAI) Name() string {
	return fmt.Sprintf("OpenAI (%s)", o.model)
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	type chatMsg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := map[string]interface{}{
		"model": o.model,
		"messages": []chatMsg{
			{Role: "system", Content: systemPromptModeler},
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	url := o.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	started := time.Now()
	logRequest(o.logger, o.Name(), url, prompt)
	text, err := o.do(req)
	logResponse(o.logger, o.Name(), text, started, err)
	return text, err
}

func (o *OpenAI) do(req *http.Request) (string, error) {
	url := req.URL.String()
	resp, err := o.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ParseError{What: "chat completion response", Err: err}
	}
	if len(result.Choices) == 0 {
		return "", &ParseError{What: "chat completion response", Err: fmt.Errorf("no choices returned")}
	}
	return result.Choices[0].Message.Content, nil
}
