// logger.go logs every inference request/response pair at debug level.
package ai

import (
	"log/slog"
	"time"
)

func logRequest(logger *slog.Logger, provider, url, prompt string) {
	logger.Debug("inference request",
		slog.String("provider", provider),
		slog.String("url", url),
		slog.Int("prompt_len", len(prompt)),
		slog.String("prompt", prompt),
	)
}

func logResponse(logger *slog.Logger, provider, response string, started time.Time, err error) {
	attrs := []any{
		slog.String("provider", provider),
		slog.Duration("elapsed", time.Since(started)),
		slog.Int("response_len", len(response)),
		slog.String("response", response),
	}
	if err != nil {
		logger.Error("inference failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	logger.Debug("inference response", attrs...)
}
