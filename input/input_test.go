package input

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVToJSON(t *testing.T) {
	text, err := CSVToJSON([]byte("name,age,score,active,note\nAna,31,4.5,true,\nBo,,x,FALSE,\"a, b\"\n"))
	require.NoError(t, err)

	assert.True(t, strings.Index(text, `"name"`) < strings.Index(text, `"age"`), "header order kept")

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0]["name"])
	assert.Equal(t, float64(31), rows[0]["age"])
	assert.Equal(t, 4.5, rows[0]["score"])
	assert.Equal(t, true, rows[0]["active"])
	assert.Nil(t, rows[0]["note"])
	assert.Nil(t, rows[1]["age"])
	assert.Equal(t, "x", rows[1]["score"])
	assert.Equal(t, false, rows[1]["active"])
	assert.Equal(t, "a, b", rows[1]["note"])
}

func TestCSVToJSONEdgeCases(t *testing.T) {
	_, err := CSVToJSON(nil)
	assert.Error(t, err)

	text, err := CSVToJSON([]byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	var sb strings.Builder
	sb.WriteString("n\n")
	for i := 0; i < MaxSampleRows+10; i++ {
		sb.WriteString("1\n")
	}
	text, err = CSVToJSON([]byte(sb.String()))
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &rows))
	assert.Len(t, rows, MaxSampleRows)
}

func TestFromText(t *testing.T) {
	in := FromText(`  {"a":1,"b":[1,2]}  `)
	assert.Equal(t, FormatJSON, in.Format)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ]\n}", in.Text)

	in = FromText("  customers place orders  ")
	assert.Equal(t, FormatText, in.Format)
	assert.Equal(t, "customers place orders", in.Text)

	in = FromText("42")
	assert.Equal(t, FormatText, in.Format)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "people.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,name\n1,Ana\n"), 0o600))
	in, err := Load(csvPath, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, in.Format)
	assert.Contains(t, in.Text, `"name": "Ana"`)

	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{oops"), 0o600))
	_, err = Load(badJSON, nil)
	assert.ErrorContains(t, err, "invalid JSON")

	in, err = Load("-", strings.NewReader("orders have items\n"))
	require.NoError(t, err)
	assert.Equal(t, Input{Format: FormatText, Text: "orders have items"}, in)

	_, err = Load(filepath.Join(dir, "missing.txt"), nil)
	assert.Error(t, err)
}
