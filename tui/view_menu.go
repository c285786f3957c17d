// view_menu.go — operation picker shown at startup and after each result.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuView lists the pipeline operations plus the history and log entries.
type MenuView struct {
	ops    []operation
	cursor int
	model  func() string // current model of the session
	width  int
	height int
}

func NewMenuView(ops []operation, currentModel func() string) *MenuView {
	return &MenuView{ops: ops, model: currentModel}
}

func (v *MenuView) Name() string         { return "Menu" }
func (v *MenuView) WantsTextInput() bool { return false }
func (v *MenuView) Init() tea.Cmd        { return nil }

func (v *MenuView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *MenuView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "↑/↓", Desc: "select"},
		{Key: "Enter", Desc: "open"},
		{Key: "h", Desc: "history"},
		{Key: "l", Desc: "logs"},
		{Key: "t", Desc: "export transcript"},
		{Key: "q", Desc: "quit"},
	}
}

// entries is the number of selectable rows: operations, history, logs.
func (v *MenuView) entries() int { return len(v.ops) + 2 }

func (v *MenuView) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.entries()-1 {
			v.cursor++
		}
	case "home", "g":
		v.cursor = 0
	case "end", "G":
		v.cursor = v.entries() - 1
	case "h":
		return v, func() tea.Msg { return showHistoryMsg{} }
	case "l":
		return v, func() tea.Msg { return showLogsMsg{} }
	case "enter":
		switch v.cursor {
		case len(v.ops):
			return v, func() tea.Msg { return showHistoryMsg{} }
		case len(v.ops) + 1:
			return v, func() tea.Msg { return showLogsMsg{} }
		}
		idx := v.cursor
		return v, func() tea.Msg { return selectOperationMsg{index: idx} }
	default:
		// digits jump straight to an operation
		if s := key.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			idx := int(s[0] - '1')
			if idx < len(v.ops) {
				v.cursor = idx
				return v, func() tea.Msg { return selectOperationMsg{index: idx} }
			}
		}
	}
	return v, nil
}

func (v *MenuView) View() string {
	lines := []string{StyleTitle.Render("What do you want to do?")}

	for i, op := range v.ops {
		lines = append(lines, v.row(i, fmt.Sprintf("%d. %s", i+1, op.Op.Title()), op.Desc))
	}
	lines = append(lines, "",
		v.row(len(v.ops), "   History", "Review every operation of this session"),
		v.row(len(v.ops)+1, "   Logs", "Follow the application log"))

	lines = append(lines, "", StyleDimmed.Render("Current model: ")+modelPreview(v.model(), v.width-16))
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (v *MenuView) row(i int, title, desc string) string {
	titleStyle := lipgloss.NewStyle().Width(28)
	if i == v.cursor {
		return StyleListItemActive.Render("▸ ") + titleStyle.Inherit(StyleListItemActive).Render(title) + StyleNormal.Render(desc)
	}
	return "  " + titleStyle.Render(title) + StyleDimmed.Render(desc)
}

// modelPreview returns the first non-empty line of the model, truncated.
func modelPreview(model string, width int) string {
	if strings.TrimSpace(model) == "" {
		return StyleDimmed.Render("(none yet)")
	}
	first := ""
	for _, line := range strings.Split(model, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			first = t
			break
		}
	}
	return StyleSuccess.Render(truncate(first, width)) +
		StyleDimmed.Render(fmt.Sprintf("  (%d lines)", strings.Count(model, "\n")+1))
}
