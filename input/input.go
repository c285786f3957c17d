// Package input turns user-provided data (free text, JSON or CSV) into
// the text embedded in a generation prompt.
package input

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxSampleRows caps how many CSV data rows reach the prompt.
const MaxSampleRows = 50

// Format is the detected kind of input.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Input is prepared prompt input.
type Input struct {
	Format Format
	Text   string
}

// Load reads path ("-" for stdin) and prepares it. The format comes from
// the file extension, falling back to content sniffing.
func Load(path string, stdin io.Reader) (Input, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Input{}, fmt.Errorf("read input %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		text, err := CSVToJSON(data)
		if err != nil {
			return Input{}, err
		}
		return Input{Format: FormatCSV, Text: text}, nil
	case ".json":
		text, err := indentJSON(data)
		if err != nil {
			return Input{}, fmt.Errorf("input %s: %w", path, err)
		}
		return Input{Format: FormatJSON, Text: text}, nil
	}
	return FromText(string(data)), nil
}

// FromText prepares typed or pasted input. Valid JSON is re-indented;
// anything else passes through trimmed.
func FromText(s string) Input {
	s = strings.TrimSpace(s)
	if json.Valid([]byte(s)) && (strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")) {
		if text, err := indentJSON([]byte(s)); err == nil {
			return Input{Format: FormatJSON, Text: text}
		}
	}
	return Input{Format: FormatText, Text: s}
}

func indentJSON(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return buf.String(), nil
}

// CSVToJSON converts a CSV document with a header row into a JSON array
// of row objects. Keys keep header order; cells holding integers, floats
// or booleans become JSON numbers and booleans; empty cells become null.
func CSVToJSON(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("CSV parse error: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("empty CSV")
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}
	rows := records[1:]
	if len(rows) > MaxSampleRows {
		rows = rows[:MaxSampleRows]
	}

	var sb strings.Builder
	sb.WriteString("[")
	for r, row := range rows {
		if r > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n  {")
		for i, h := range headers {
			if i > 0 {
				sb.WriteString(", ")
			}
			key, _ := json.Marshal(h)
			sb.Write(key)
			sb.WriteString(": ")
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			val, _ := json.Marshal(cellValue(cell))
			sb.Write(val)
		}
		sb.WriteString("}")
	}
	if len(rows) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("]")
	return sb.String(), nil
}

func cellValue(cell string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	switch strings.ToLower(cell) {
	case "true":
		return true
	case "false":
		return false
	}
	return cell
}
