package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DachengChen/paiSchema/ai"
	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResolveValues(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,age\nada,36\n"), 0o644))
	reqPath := filepath.Join(dir, "req.txt")
	require.NoError(t, os.WriteFile(reqPath, []byte("add tags"), 0o644))

	fields := []field{
		{Label: "Input", ReadsFiles: true, ParsesInput: true},
		{Label: "Requirements", ReadsFiles: true},
		{Label: "Plain"},
	}
	got, err := resolveValues(fields, []string{"@" + csvPath, " @" + reqPath, "@literal"})
	require.NoError(t, err)
	assert.Contains(t, got[0], `"name": "ada"`)
	assert.Contains(t, got[0], `"age": 36`)
	assert.Equal(t, "add tags", got[1])
	assert.Equal(t, "@literal", got[2])

	_, err = resolveValues(fields[1:2], []string{"@" + filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Requirements")
}

func TestFormRequiresFields(t *testing.T) {
	ops := operations("mongodb://localhost:27017")
	var adapt operation
	idx := -1
	for i, op := range ops {
		if op.Op == session.OpAdaptModel {
			adapt, idx = op, i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	form := NewFormView(idx, adapt, "current model")
	assert.Equal(t, "current model", form.values[0])

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, "Requirements is required", form.err)
	assert.Equal(t, 1, form.focus)

	form.Update(runes("add"))
	form.Update(tea.KeyMsg{Type: tea.KeySpace})
	form.Update(runes("tags"))
	_, cmd = form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg, ok := cmd().(submitMsg)
	require.True(t, ok)
	assert.Equal(t, idx, msg.index)
	assert.Equal(t, []string{"current model", "add tags"}, msg.values)
}

func TestAppRunsOperation(t *testing.T) {
	sess := session.New(session.Deps{Generator: ai.NewPlaceholder()})
	app := NewApp(sess, config.Default())
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	_, cmd := app.Update(runes("6"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.NotNil(t, app.form)
	assert.Equal(t, session.OpVisualizeSQL, app.form.op.Op)

	_, cmd = app.Update(submitMsg{index: 5, values: []string{"CREATE TABLE a (x INT);", ""}})
	require.NotNil(t, cmd)
	assert.True(t, app.running())

	app.Update(cmd())
	assert.False(t, app.running())
	assert.Nil(t, app.form)
	_, ok := app.active.(*ResultView)
	assert.True(t, ok)
	assert.Equal(t, 1, sess.Log().Len())

	app.Update(backMsg{})
	assert.Equal(t, View(app.menu), app.active)
	assert.NotEmpty(t, app.View())
}

func TestTailFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	lines, err := tailFile(path, 64)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("level=INFO msg=line" + itoa(i) + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	lines, err = tailFile(path, 64)
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.Equal(t, "level=INFO msg=line19", lines[len(lines)-1])
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "level=INFO"), l)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	got := truncate("hello world", 6)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 6)
}
