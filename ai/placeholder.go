package ai

import (
	"context"
	"time"
)

// Placeholder is an offline Generator for development and demos.
// It answers every prompt with the same well-formed tri-part model.
type Placeholder struct {
	delay time.Duration
}

var _ Generator = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{delay: 300 * time.Millisecond}
}

func (p *Placeholder) Name() string {
	return "placeholder"
}

func (p *Placeholder) Generate(ctx context.Context, prompt string) (string, error) {
	// Simulate network latency
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return placeholderAnswer, nil
}

var placeholderAnswer = `1. JSON schema

` + fence + `json
{
  "tables": [
    {
      "name": "customers",
      "columns": [
        {"name": "id", "type": "integer", "sample_value": 1},
        {"name": "name", "type": "string", "sample_value": "Ada Lovelace"},
        {"name": "email", "type": "string"},
        {"name": "created_at", "type": "datetime"}
      ]
    },
    {
      "name": "orders",
      "columns": [
        {"name": "id", "type": "integer"},
        {"name": "customer_id", "type": "integer", "foreign_key": {"table": "customers", "column": "id"}},
        {"name": "total", "type": "double", "sample_value": 42.5},
        {"name": "paid", "type": "boolean"},
        {"name": "items", "type": "array"}
      ]
    }
  ]
}
` + fence + `

2. SQL

` + fence + `sql
CREATE TABLE customers (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  created_at TIMESTAMP
);

CREATE TABLE orders (
  id INTEGER PRIMARY KEY,
  customer_id INTEGER REFERENCES customers(id),
  total DOUBLE PRECISION,
  paid BOOLEAN,
  items JSONB
);
` + fence + `

3. Explanation

This is a placeholder answer. Configure a real provider (Ollama or an
OpenAI-compatible endpoint) in ~/.paischema/config.yaml to model your data.`
