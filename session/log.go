package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one finished operation. Records are never modified after
// they are appended.
type Record struct {
	ID        uuid.UUID
	Time      time.Time
	Operation Operation
	Input     any
	Output    string
}

// Log is the append-only interaction log of a session.
type Log struct {
	mu      sync.Mutex
	records []Record
	now     func() time.Time
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append records an operation and returns the stored record.
func (l *Log) Append(op Operation, input any, output string) Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := Record{
		ID:        uuid.New(),
		Time:      l.now(),
		Operation: op,
		Input:     input,
		Output:    output,
	}
	l.records = append(l.records, rec)
	return rec
}

// Records returns a copy of the log in insertion order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Transcript renders the log as plain-text documentation.
func (l *Log) Transcript() string {
	var sb strings.Builder
	_ = l.WriteTranscript(&sb)
	return sb.String()
}

// WriteTranscript writes one section per record, in insertion order,
// with the operation name, the pretty-printed input and the output.
func (l *Log) WriteTranscript(w io.Writer) error {
	records := l.Records()
	if _, err := fmt.Fprintf(w, "paiSchema session transcript (%d operation(s))\n", len(records)); err != nil {
		return err
	}
	for i, rec := range records {
		_, err := fmt.Fprintf(w, "\n%s\n## %d. %s\n%s\n\nInput:\n%s\n\nOutput:\n%s\n",
			strings.Repeat("=", 72),
			i+1, rec.Operation.Title(),
			rec.Time.Format(time.RFC3339),
			prettyPayload(rec.Input),
			strings.TrimRight(rec.Output, "\n"))
		if err != nil {
			return err
		}
	}
	return nil
}

// prettyPayload prints strings verbatim and everything else as indented JSON.
func prettyPayload(v any) string {
	switch val := v.(type) {
	case nil:
		return "(none)"
	case string:
		return strings.TrimRight(val, "\n")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
