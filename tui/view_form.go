// view_form.go — input form of one pipeline operation.
//
// Multiline fields take Enter as a newline; Ctrl+S submits from any
// field. A value starting with "@" is read from that file on submit.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxFieldLines is how many trailing lines of a field are shown.
const maxFieldLines = 8

type FormView struct {
	index   int
	op      operation
	values  []string
	focus   int
	running bool
	err     string
	width   int
	height  int
}

// NewFormView creates the form for op, prefilling defaults and the
// current model.
func NewFormView(index int, op operation, currentModel string) *FormView {
	values := make([]string, len(op.Fields))
	for i, f := range op.Fields {
		values[i] = f.Default
		if f.FromModel {
			values[i] = currentModel
		}
	}
	return &FormView{index: index, op: op, values: values}
}

func (v *FormView) Name() string         { return v.op.Op.Title() }
func (v *FormView) WantsTextInput() bool { return !v.running }
func (v *FormView) Init() tea.Cmd        { return nil }

func (v *FormView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *FormView) ShortHelp() []KeyBinding {
	if v.running {
		return []KeyBinding{{Key: "Esc", Desc: "cancel"}}
	}
	return []KeyBinding{
		{Key: "Ctrl+S", Desc: "run"},
		{Key: "Tab", Desc: "next field"},
		{Key: "Ctrl+U", Desc: "clear field"},
		{Key: "Esc", Desc: "back"},
	}
}

// SetRunning toggles the waiting state shown while the operation runs.
func (v *FormView) SetRunning(running bool) { v.running = running }

func (v *FormView) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.running {
		return v, nil
	}
	f := v.op.Fields[v.focus]

	switch key.String() {
	case "esc":
		return v, func() tea.Msg { return backMsg{} }
	case "ctrl+s":
		return v, v.submit()
	case "tab", "down":
		if !f.Multiline || key.String() == "tab" {
			v.focus = (v.focus + 1) % len(v.values)
		}
	case "shift+tab", "up":
		if !f.Multiline || key.String() == "shift+tab" {
			v.focus = (v.focus - 1 + len(v.values)) % len(v.values)
		}
	case "enter":
		if f.Multiline {
			v.values[v.focus] += "\n"
		} else if v.focus == len(v.values)-1 {
			return v, v.submit()
		} else {
			v.focus++
		}
	case "backspace":
		r := []rune(v.values[v.focus])
		if len(r) > 0 {
			v.values[v.focus] = string(r[:len(r)-1])
		}
	case "ctrl+u":
		v.values[v.focus] = ""
	default:
		switch key.Type {
		case tea.KeyRunes:
			v.values[v.focus] += string(key.Runes)
		case tea.KeySpace:
			v.values[v.focus] += " "
		}
	}
	v.err = ""
	return v, nil
}

func (v *FormView) submit() tea.Cmd {
	for i, f := range v.op.Fields {
		if !f.Optional && !f.FromModel && strings.TrimSpace(v.values[i]) == "" {
			v.err = f.Label + " is required"
			v.focus = i
			return nil
		}
	}
	values := make([]string, len(v.values))
	copy(values, v.values)
	idx := v.index
	return func() tea.Msg { return submitMsg{index: idx, values: values} }
}

func (v *FormView) View() string {
	lines := []string{
		StyleTitle.Render(v.op.Op.Title()) + StyleDimmed.Render("  "+v.op.Desc),
	}

	inputWidth := v.width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	for i, f := range v.op.Fields {
		lines = append(lines, v.renderField(i, f, inputWidth), "")
	}

	switch {
	case v.running:
		lines = append(lines, StyleWarning.Render("⏳ Running... (Esc to cancel)"))
	case v.err != "":
		lines = append(lines, StyleError.Render("✗ "+v.err))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// renderField renders a label line, a hint and the value box.
func (v *FormView) renderField(i int, f field, inputWidth int) string {
	focused := i == v.focus
	label := StyleDimmed.Render("  " + f.Label)
	if focused {
		label = StyleInputFocused.Render("▸ " + f.Label)
	}
	if f.Hint != "" {
		label += StyleDimmed.Render("  (" + f.Hint + ")")
	}

	value := v.values[i]
	shown := strings.Split(value, "\n")
	if len(shown) > maxFieldLines {
		hidden := len(shown) - maxFieldLines
		shown = append([]string{StyleDimmed.Render("… " + itoa(hidden) + " more line(s) above")}, shown[hidden:]...)
	}
	for j, line := range shown {
		shown[j] = truncate(line, inputWidth)
	}
	body := strings.Join(shown, "\n")
	if focused && !v.running {
		body += "█"
	}

	style := StyleFieldBox
	if focused {
		style = StyleFieldBoxFocused
	}
	return label + "\n" + style.Width(inputWidth).Render(body)
}
