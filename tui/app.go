// app.go is the top-level Bubble Tea model that orchestrates all views.
//
// Flow:
//  1. Start with the MenuView (operation picker)
//  2. Selecting an operation opens its FormView
//  3. Submitting runs the operation in a tea.Cmd; the result replaces
//     the form in a ResultView; Esc returns to the menu
//
// Key design decisions:
//   - One operation at a time: keys other than Esc/Ctrl+C are ignored
//     while an operation runs, and Esc cancels it
//   - Help overlay (`?`) toggled on/off outside text input
//   - `t` exports the session transcript outside text input
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const appVersion = "0.1.0"

// App is the root Bubble Tea model.
type App struct {
	session *session.Session
	cfg     *config.AppConfig
	ops     []operation

	menu   *MenuView
	form   *FormView // open form, nil on other screens
	active View
	cancel context.CancelFunc // non-nil while an operation runs

	// UI state
	width     int
	height    int
	showHelp  bool
	statusMsg string
}

// NewApp creates the application starting with the menu.
func NewApp(sess *session.Session, cfg *config.AppConfig) *App {
	ops := operations(cfg.Mongo.URI)
	menu := NewMenuView(ops, sess.CurrentModel)
	return &App{
		session: sess,
		cfg:     cfg,
		ops:     ops,
		menu:    menu,
		active:  menu,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.active.Init()
}

func (a *App) running() bool { return a.cancel != nil }

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case selectOperationMsg:
		a.form = NewFormView(msg.index, a.ops[msg.index], a.session.CurrentModel())
		a.setActive(a.form)
		return a, nil

	case submitMsg:
		return a, a.run(msg)

	case OperationDoneMsg:
		if a.cancel != nil {
			a.cancel()
			a.cancel = nil
		}
		a.form = nil
		a.statusMsg = ""
		a.setActive(NewResultView(msg.Result))
		return a, nil

	case backMsg:
		a.form = nil
		a.setActive(a.menu)
		return a, nil

	case showHistoryMsg:
		a.setActive(NewHistoryView(a.session.Log()))
		return a, nil

	case showLogsMsg:
		logs := NewLogView(a.cfg.Log.File)
		a.setActive(logs)
		return a, logs.Init()

	case TranscriptSavedMsg:
		if msg.Err != nil {
			a.statusMsg = StyleError.Render("transcript export failed: " + msg.Err.Error())
		} else {
			a.statusMsg = StyleSuccess.Render("transcript saved to " + msg.Path)
		}
		return a, nil

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil
	}

	updated, cmd := a.active.Update(msg)
	a.active = updated
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if a.cancel != nil {
			a.cancel()
		}
		return a, tea.Quit
	}

	if a.running() {
		if msg.String() == "esc" {
			a.cancel()
			a.statusMsg = "canceling..."
		}
		return a, nil
	}

	a.statusMsg = ""
	if !a.active.WantsTextInput() {
		switch msg.String() {
		case "?":
			a.showHelp = !a.showHelp
			return a, nil
		case "t":
			return a, exportTranscript(a.session)
		case "q":
			if a.active == View(a.menu) {
				return a, tea.Quit
			}
		}
	}
	if a.showHelp {
		if msg.String() == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	updated, cmd := a.active.Update(msg)
	a.active = updated
	return a, cmd
}

// run resolves the form values and starts the operation.
func (a *App) run(msg submitMsg) tea.Cmd {
	op := a.ops[msg.index]
	values, err := resolveValues(op.Fields, msg.values)
	if err != nil {
		if a.form != nil {
			a.form.err = err.Error()
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.form != nil {
		a.form.SetRunning(true)
	}
	sess := a.session
	return func() tea.Msg {
		return OperationDoneMsg{Result: op.Run(ctx, sess, values)}
	}
}

func (a *App) setActive(v View) {
	a.active = v
	a.showHelp = false
	a.resize()
}

// resize passes the content area to the active view:
// header(1) + status(1) + border(2) lines of chrome.
func (a *App) resize() {
	if a.width == 0 {
		return
	}
	a.active.SetSize(a.width-2, a.height-4)
}

// exportTranscript writes the session log to
// ~/.paischema/transcripts/<session-id>.txt.
func exportTranscript(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		dir, err := config.AppDir()
		if err != nil {
			return TranscriptSavedMsg{Err: err}
		}
		dir = filepath.Join(dir, "transcripts")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return TranscriptSavedMsg{Err: err}
		}
		path := filepath.Join(dir, sess.ID.String()+".txt")
		f, err := os.Create(path)
		if err != nil {
			return TranscriptSavedMsg{Err: err}
		}
		if err := sess.Log().WriteTranscript(f); err != nil {
			f.Close()
			return TranscriptSavedMsg{Err: err}
		}
		return TranscriptSavedMsg{Path: path, Err: f.Close()}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	header := a.renderHeader()

	content := a.active.View()
	if a.showHelp {
		content = a.renderHelp()
	}

	frameHeight := a.height - 4
	if frameHeight < 0 {
		frameHeight = 0
	}
	frame := StyleBorder.
		Width(a.width - 2).
		Height(frameHeight).
		Render(content)

	return header + "\n" + frame + "\n" + a.renderStatusBar()
}

// renderHeader draws a simple text bar: logo + version + generator + session.
func (a *App) renderHeader() string {
	logo := StyleBold.Render("📐 paiSchema")
	version := StyleDimmed.Render(" v" + appVersion)
	gen := StyleSuccess.Render("  ⚡ " + a.session.GeneratorName())

	content := logo + version + gen

	right := StyleDimmed.Render(fmt.Sprintf("session %s · %d op(s)", a.session.ID.String()[:8], a.session.Log().Len()))
	gap := a.width - lipgloss.Width(content) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Width(a.width).
		Render(content + filler + right)
}

func (a *App) renderStatusBar() string {
	var content string
	if a.statusMsg != "" {
		content = a.statusMsg
	} else {
		var parts []string
		for _, h := range a.getHelpItems() {
			parts = append(parts,
				StyleHelpKey.Render(h.Key)+" "+StyleHelpDesc.Render(h.Desc))
		}
		content = strings.Join(parts, "  │  ")
	}
	return StyleStatusBar.Width(a.width).Render(content)
}

func (a *App) getHelpItems() []KeyBinding {
	items := a.active.ShortHelp()
	if !a.active.WantsTextInput() && !a.running() {
		items = append(items, KeyBinding{Key: "?", Desc: "help"})
	}
	return append(items, KeyBinding{Key: "Ctrl+C", Desc: "quit"})
}

func (a *App) renderHelp() string {
	help := []string{
		StyleTitle.Render("⌨ paiSchema Keyboard Shortcuts"),
		"",
		StyleHelpKey.Render("↑/↓ j/k") + "          Move / scroll",
		StyleHelpKey.Render("1-9") + "              Open an operation from the menu",
		StyleHelpKey.Render("Enter") + "            Open / newline in multiline fields",
		StyleHelpKey.Render("Tab / Shift+Tab") + "  Next / previous form field",
		StyleHelpKey.Render("Ctrl+S") + "           Run the operation",
		StyleHelpKey.Render("Esc") + "              Back / cancel a running operation",
		StyleHelpKey.Render("w") + "                Toggle wrapping in results",
		StyleHelpKey.Render("h") + "                Session history",
		StyleHelpKey.Render("l") + "                Application log",
		StyleHelpKey.Render("t") + "                Export transcript",
		StyleHelpKey.Render("?") + "                Toggle this help",
		StyleHelpKey.Render("Ctrl+C") + "           Quit",
		"",
		StyleTitle.Render("Fields"),
		"",
		"Start a value with @ to load it from a file, e.g. @orders.csv.",
		"Model fields start with the current model of the session.",
		"",
		StyleDimmed.Render("Press ? to close"),
	}

	return lipgloss.NewStyle().
		Width(a.width-4).
		Padding(1, 2).
		Render(strings.Join(help, "\n"))
}
