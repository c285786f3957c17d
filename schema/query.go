package schema

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// Query runs a jq expression against the model document found in text
// and returns every value it produces. Runtime errors of the expression
// stop the query.
func Query(text, expression string) ([]any, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	doc, err := Document(text)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal([]byte(doc), &input); err != nil {
		return nil, &MalformedSchemaError{Reason: "invalid JSON", Err: err}
	}

	values := make([]any, 0)
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return values, fmt.Errorf("jq: %w", err)
		}
		values = append(values, v)
	}
	return values, nil
}
