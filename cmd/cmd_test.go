package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DachengChen/paiSchema/schema"
	"github.com/DachengChen/paiSchema/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInspection(t *testing.T) {
	s, err := schema.Parse(`{"tables": [
		{"name": "users", "columns": [{"name": "id", "type": "integer", "sample_value": 1}]},
		{"name": "orders", "columns": [{"name": "user_id", "type": "int", "foreign_key": "users.id"}]},
		{"name": "empty", "columns": []}
	]}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeInspection(&buf, s)
	out := buf.String()

	assert.Contains(t, strings.ToUpper(out), "FOREIGN KEY")
	assert.Contains(t, out, "users.id")
	assert.Contains(t, out, "integer")
	assert.Contains(t, out, "empty")
	assert.Contains(t, out, "3 tables, 2 columns, 1 foreign key")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	err := report(&buf, session.Result{Operation: session.OpGenerateModel, Output: "answer"})
	require.NoError(t, err)
	assert.Equal(t, "answer\n", buf.String())

	buf.Reset()
	res := session.Result{
		Operation: session.OpMaterialize,
		Output:    "inserted 1 document(s)",
		Err:       errors.New("insert into b: boom"),
		Kind:      session.KindStoreWrite,
	}
	err = report(&buf, res)
	require.Error(t, err)
	assert.Equal(t, "Materialize in MongoDB failed (store write): insert into b: boom", err.Error())
	assert.Equal(t, "inserted 1 document(s)\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "a: 1\n", buf.String())
}

func TestWriteValues(t *testing.T) {
	values, err := schema.Query(`{"tables": [{"name": "users", "columns": [{"name": "id"}]}]}`, `.tables[] | .name, (.columns | length), {n: .name}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeValues(&buf, values))
	assert.Equal(t, "users\n1\n{\"n\":\"users\"}\n", buf.String())
}

func TestRunWritesTranscriptWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAISCHEMA_PROVIDER", "placeholder")
	t.Setenv("PAISCHEMA_LOG_FILE", filepath.Join(dir, "app.log"))

	model := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(model, []byte(`{"tables": [{"name": "users", "columns": [{"name": "id"}]}]}`), 0600))
	transcript := filepath.Join(dir, "transcript.txt")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		transcriptPath, configPath = "", ""
	})

	err := run(context.Background(), []string{
		"queries",
		"--config", filepath.Join(dir, "config.yaml"),
		"--transcript", transcript,
		"--model", model,
		"--type", "MERGE",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown query type")
	assert.Nil(t, current)

	data, err := os.ReadFile(transcript)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(1 operation(s))")
	assert.Contains(t, string(data), "Error (input)")
	assert.Contains(t, string(data), "MERGE")
}
