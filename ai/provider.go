// Package ai talks to the remote text-generation service and builds
// the prompts of the schema-model pipeline.
//
// Design decisions:
//   - Generator is an interface so the backend (Ollama, an
//     OpenAI-compatible endpoint, the offline placeholder) can be swapped
//     without touching the session or TUI code.
//   - Every call takes a context; the pipeline itself never cancels, but
//     the CLI and tests bound calls with deadlines.
//   - Failures are typed (*TransportError, *ParseError) so callers
//     branch with errors.As instead of inspecting message text.
package ai

import (
	"context"
)

// Generator is the interface all inference backends implement.
type Generator interface {
	// Generate sends a single prompt and returns the complete response text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the backend name for display.
	Name() string
}
