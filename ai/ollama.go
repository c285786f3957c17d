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

// Ollama implements Generator for the /api/generate endpoint.
//
// In streamed mode the server answers with newline-delimited JSON
// fragments, in single-shot mode with one JSON document. Either body is
// read the same way: the "response" fields are concatenated and lines
// that fail to parse are logged and skipped.
type Ollama struct {
	host   string
	model  string
	stream bool
	client *http.Client
	logger *slog.Logger
}

var _ Generator = (*Ollama)(nil)

// NewOllama creates an Ollama generator. A nil logger discards logs.
func NewOllama(cfg config.OllamaConfig, logger *slog.Logger) *Ollama {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		host = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "mistral"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ollama{
		host:   host,
		model:  model,
		stream: cfg.Stream,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (o *Ollama) Name() string {
	mode := "single-shot"
	if o.stream {
		mode = "streamed"
	}
	return fmt.Sprintf("Ollama (%s, %s)", o.model, mode)
}

// Generate posts the prompt and returns the full response text.
// No retry is performed.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": o.stream,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	url := o.host + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	logRequest(o.logger, o.Name(), url, prompt)

	text, err := o.do(req)
	logResponse(o.logger, o.Name(), text, started, err)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (o *Ollama) do(req *http.Request) (string, error) {
	url := req.URL.String()
	resp, err := o.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: fmt.Errorf("is Ollama running at %s? %w", o.host, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(raw)), maxErrorBody),
		}
	}

	return o.readBody(url, resp.Body)
}

type generateChunk struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
	Done     bool    `json:"done"`
}

// readBody concatenates the "response" field of every JSON value in the
// body, whatever the requested mode: an NDJSON stream, one compact
// document or one pretty-printed document all decode the same way. A
// value that fails to decode is logged and skipped up to the end of its
// line. When nothing decodes, streamed mode yields "" and single-shot
// mode a *ParseError.
func (o *Ollama) readBody(url string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", &TransportError{URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	var (
		sb        strings.Builder
		decoded   int
		skipped   int
		serverErr string
		firstErr  error
	)
	rest := bytes.TrimLeft(data, " \t\r\n")
	for len(rest) > 0 {
		dec := json.NewDecoder(bytes.NewReader(rest))
		var chunk generateChunk
		if err := dec.Decode(&chunk); err != nil {
			line, after, _ := bytes.Cut(rest, []byte("\n"))
			skipped++
			if firstErr == nil {
				firstErr = err
			}
			o.logger.Error("skipping malformed response line",
				slog.String("error", err.Error()),
				slog.String("line", truncate(string(bytes.TrimSpace(line)), maxErrorBody)),
			)
			rest = bytes.TrimLeft(after, " \t\r\n")
			continue
		}
		n := dec.InputOffset()
		o.logger.Debug("inference response fragment", slog.String("raw", string(bytes.TrimSpace(rest[:n]))))
		rest = bytes.TrimLeft(rest[n:], " \t\r\n")

		decoded++
		if chunk.Error != "" {
			serverErr = chunk.Error
			o.logger.Warn("response fragment reported an error", slog.String("error", chunk.Error))
		}
		if chunk.Response != nil {
			sb.WriteString(*chunk.Response)
		}
	}
	if skipped > 0 {
		o.logger.Warn("response finished with skipped lines", slog.Int("skipped", skipped), slog.Int("decoded", decoded))
	}

	switch {
	case decoded == 0 && !o.stream:
		if firstErr == nil {
			firstErr = fmt.Errorf("empty body")
		}
		return "", &ParseError{What: "generate response", Err: firstErr}
	case sb.Len() == 0 && serverErr != "":
		return "", &ParseError{What: "generate response", Err: fmt.Errorf("server error: %s", serverErr)}
	}
	return sb.String(), nil
}
