// view_result.go — scrollable output of an operation or the history.
package tui

import (
	"strings"
	"time"

	"github.com/DachengChen/paiSchema/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ResultView struct {
	title    string
	status   string
	viewport *Viewport
	width    int
	height   int
}

// NewResultView shows the outcome of one operation.
func NewResultView(res session.Result) *ResultView {
	v := &ResultView{title: res.Operation.Title(), viewport: NewViewport(80, 20)}
	if res.OK() {
		v.status = StyleSuccess.Render("✓ done in " + res.Duration.Round(time.Millisecond).String())
		if res.Schema != nil {
			v.status += StyleDimmed.Render("  " + res.Schema.Summary())
		}
	} else {
		v.status = StyleError.Render("✗ " + res.Kind.String() + " error")
	}
	v.viewport.SetContent(res.Display())
	v.viewport.ToggleWrap()
	return v
}

// NewHistoryView shows the transcript of the session so far.
func NewHistoryView(log *session.Log) *ResultView {
	v := &ResultView{title: "History", viewport: NewViewport(80, 20)}
	v.status = StyleDimmed.Render(itoa(log.Len()) + " operation(s)")
	v.viewport.SetContent(log.Transcript())
	v.viewport.ToggleWrap()
	return v
}

func (v *ResultView) Name() string         { return v.title }
func (v *ResultView) WantsTextInput() bool { return false }
func (v *ResultView) Init() tea.Cmd        { return nil }

func (v *ResultView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.SetSize(width-2, height-4)
}

func (v *ResultView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "↑/↓ PgUp/PgDn", Desc: "scroll"},
		{Key: "w", Desc: "wrap"},
		{Key: "t", Desc: "export transcript"},
		{Key: "Esc", Desc: "menu"},
	}
}

func (v *ResultView) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "esc", "q", "enter":
		return v, func() tea.Msg { return backMsg{} }
	case "up", "k":
		v.viewport.ScrollUp(1)
	case "down", "j":
		v.viewport.ScrollDown(1)
	case "left", "h":
		v.viewport.ScrollLeft(4)
	case "right", "l":
		v.viewport.ScrollRight(4)
	case "pgup":
		v.viewport.PageUp()
	case "pgdown", " ":
		v.viewport.PageDown()
	case "home", "g":
		v.viewport.Home()
	case "end", "G":
		v.viewport.End()
	case "w":
		v.viewport.ToggleWrap()
	}
	return v, nil
}

func (v *ResultView) View() string {
	header := StyleTitle.Render(v.title) + "  " + v.status
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.TrimRight(v.viewport.Render(), "\n"))
}
