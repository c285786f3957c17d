package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedSchemaError reports text that does not contain a usable
// schema document: no JSON, invalid JSON, or no top-level "tables".
type MalformedSchemaError struct {
	Reason string
	Err    error
}

func (e *MalformedSchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed schema: %s: %v", e.Reason, e.Err)
	}
	return "malformed schema: " + e.Reason
}

func (e *MalformedSchemaError) Unwrap() error { return e.Err }

type rawColumn struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	SampleValue any         `json:"sample_value"`
	ForeignKey  *ForeignKey `json:"foreign_key"`
}

type rawTable struct {
	Name    string      `json:"name"`
	Columns []rawColumn `json:"columns"`
}

// Parse extracts a Schema from generated text. The text may wrap the
// JSON document in a markdown fence or surround it with prose; the
// first JSON object that decodes and carries a "tables" array wins.
// On failure the returned Schema is always empty.
func Parse(text string) (Schema, error) {
	s, _, err := find(text)
	return s, err
}

// Document returns the JSON text of the model document Parse would use.
func Document(text string) (string, error) {
	_, doc, err := find(text)
	return doc, err
}

func find(text string) (Schema, string, error) {
	candidates := jsonCandidates(text)
	if len(candidates) == 0 {
		return Schema{}, "", &MalformedSchemaError{Reason: "no JSON object found"}
	}

	var firstErr error
	for _, c := range candidates {
		s, err := decode(c)
		if err == nil {
			return s, c, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return Schema{}, "", firstErr
}

func decode(doc string) (Schema, error) {
	if err := validateDocument(doc); err != nil {
		return Schema{}, err
	}
	var raw struct {
		Tables *[]rawTable `json:"tables"`
	}
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Schema{}, &MalformedSchemaError{Reason: "invalid JSON", Err: err}
	}
	if raw.Tables == nil {
		return Schema{}, &MalformedSchemaError{Reason: `missing top-level "tables" array`}
	}

	s := Schema{Tables: make([]Table, 0, len(*raw.Tables))}
	for i, rt := range *raw.Tables {
		if strings.TrimSpace(rt.Name) == "" {
			return Schema{}, &MalformedSchemaError{Reason: fmt.Sprintf("table #%d has no name", i+1)}
		}
		t := Table{Name: rt.Name, Columns: make([]Column, 0, len(rt.Columns))}
		for j, rc := range rt.Columns {
			if strings.TrimSpace(rc.Name) == "" {
				return Schema{}, &MalformedSchemaError{Reason: fmt.Sprintf("column #%d of table %q has no name", j+1, rt.Name)}
			}
			fk := rc.ForeignKey
			if fk != nil && strings.TrimSpace(fk.Table) == "" {
				fk = nil
			}
			t.Columns = append(t.Columns, Column{
				Name:        rc.Name,
				Type:        rc.Type,
				Kind:        ClassifyType(rc.Type),
				SampleValue: normalizeNumbers(rc.SampleValue),
				ForeignKey:  fk,
			})
		}
		s.Tables = append(s.Tables, t)
	}
	return s, nil
}

// UnmarshalJSON accepts {"table": ..., "column": ...} as well as the
// "table.column" shorthand some models emit. The column is split off at
// the last dot, so "public.users.id" names table "public.users"; a
// shorthand without a dot names only the table.
func (fk *ForeignKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		fk.Table, fk.Column = s, ""
		if i := strings.LastIndex(s, "."); i >= 0 {
			fk.Table = strings.TrimSpace(s[:i])
			fk.Column = strings.TrimSpace(s[i+1:])
		}
		return nil
	}
	type plain ForeignKey
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*fk = ForeignKey(p)
	return nil
}

// normalizeNumbers turns json.Number values into int64 or float64.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		for i := range val {
			val[i] = normalizeNumbers(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = normalizeNumbers(val[k])
		}
		return val
	default:
		return v
	}
}

// jsonCandidates returns, in order of preference, the JSON object texts
// found in a model answer: ```json fences, other fences holding an
// object, then every balanced top-level {...} in the raw text.
func jsonCandidates(text string) []string {
	var out []string
	for _, block := range fencedBlocks(text) {
		body := strings.TrimSpace(block.body)
		if block.lang == "json" || strings.HasPrefix(body, "{") {
			out = append(out, body)
		}
	}
	out = append(out, balancedObjects(text)...)
	return out
}

type fenced struct {
	lang string
	body string
}

// fencedBlocks returns the markdown code blocks of text. An unclosed
// trailing fence is ignored.
func fencedBlocks(text string) []fenced {
	const marker = "```"
	var blocks []fenced
	rest := text
	for {
		start := strings.Index(rest, marker)
		if start < 0 {
			return blocks
		}
		rest = rest[start+len(marker):]
		end := strings.Index(rest, marker)
		if end < 0 {
			return blocks
		}
		inner := rest[:end]
		rest = rest[end+len(marker):]

		lang := ""
		if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
			first := strings.TrimSpace(inner[:nl])
			if first != "" && !strings.ContainsAny(first, "{[ ") {
				lang = strings.ToLower(first)
				inner = inner[nl+1:]
			}
		}
		blocks = append(blocks, fenced{lang: lang, body: inner})
	}
}

// balancedObjects scans for top-level {...} spans, objects mentioning
// "tables" first. Braces inside JSON strings are ignored once an object
// has been entered.
func balancedObjects(text string) []string {
	var (
		withKey  []string
		others   []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	b := []byte(text)
	for i, ch := range b {
		if depth > 0 && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				obj := b[start : i+1]
				if bytes.Contains(obj, []byte(`"tables"`)) {
					withKey = append(withKey, string(obj))
				} else {
					others = append(others, string(obj))
				}
				start = -1
			}
		}
	}
	return append(withKey, others...)
}
