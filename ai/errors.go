package ai

import (
	"fmt"
	"unicode/utf8"
)

const maxErrorBody = 512

// TransportError reports that the remote call could not be completed:
// the request failed on the network or the server answered non-2xx.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("inference request to %s failed (%d): %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("inference request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not in the expected shape.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse " + e.What
	}
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// truncate shortens s to at most maxLen bytes, cutting on a rune
// boundary.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
