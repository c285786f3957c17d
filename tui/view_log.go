// view_log.go — live tail of the application log file.
//
// Re-reads the end of the log every few seconds using tea.Tick, so
// inference requests, materializations and dry runs can be followed
// while they happen. The user can pause/resume the refresh.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	logRefreshInterval = 2 * time.Second
	logTailBytes       = 64 << 10
)

// LogMsg carries the tail of the log file.
type LogMsg struct {
	Lines []string
	Err   error
}

// tickMsg triggers periodic refresh of the view that scheduled it.
type tickMsg struct{ view *LogView }

type LogView struct {
	path     string
	viewport *Viewport
	paused   bool
	err      error
	width    int
	height   int
}

func NewLogView(path string) *LogView {
	return &LogView{path: path, viewport: NewViewport(80, 20)}
}

func (v *LogView) Name() string         { return "Logs" }
func (v *LogView) WantsTextInput() bool { return false }

func (v *LogView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.SetSize(width-2, height-4)
}

func (v *LogView) ShortHelp() []KeyBinding {
	pause := "pause"
	if v.paused {
		pause = "resume"
	}
	return []KeyBinding{
		{Key: "p", Desc: pause},
		{Key: "↑/↓", Desc: "scroll"},
		{Key: "Esc", Desc: "menu"},
	}
}

func (v *LogView) Init() tea.Cmd {
	if v.path == "" {
		v.viewport.SetContent(StyleDimmed.Render("Logging goes to stderr. Set log.file in the config to follow it here."))
		return nil
	}
	return tea.Batch(v.fetchLog(), v.tick())
}

func (v *LogView) tick() tea.Cmd {
	return tea.Tick(logRefreshInterval, func(time.Time) tea.Msg {
		return tickMsg{view: v}
	})
}

func (v *LogView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case tickMsg:
		if msg.view != v {
			return v, nil
		}
		if !v.paused {
			return v, tea.Batch(v.fetchLog(), v.tick())
		}
		return v, v.tick()

	case LogMsg:
		v.err = msg.Err
		if msg.Err == nil {
			v.viewport.SetContent(strings.Join(colorize(msg.Lines), "\n"))
			// Auto-scroll to bottom when not paused
			if !v.paused {
				v.viewport.End()
			}
		}
		return v, nil
	}

	return v, nil
}

func (v *LogView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return v, func() tea.Msg { return backMsg{} }
	case "p":
		v.paused = !v.paused
	case "up", "k":
		v.viewport.ScrollUp(1)
	case "down", "j":
		v.viewport.ScrollDown(1)
	case "pgup":
		v.viewport.PageUp()
	case "pgdown":
		v.viewport.PageDown()
	case "home", "g":
		v.viewport.Home()
	case "end", "G":
		v.viewport.End()
	}
	return v, nil
}

func (v *LogView) fetchLog() tea.Cmd {
	path := v.path
	return func() tea.Msg {
		lines, err := tailFile(path, logTailBytes)
		return LogMsg{Lines: lines, Err: err}
	}
}

// tailFile returns the complete lines within the last n bytes of path.
func tailFile(path string, n int64) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := info.Size() - n
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if offset > 0 && len(lines) > 1 {
		lines = lines[1:] // first line is partial
	}
	return lines, nil
}

// colorize highlights slog text-handler lines by level.
func colorize(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		color := ColorPrimary
		switch {
		case strings.Contains(line, "level=ERROR"):
			color = ColorError
		case strings.Contains(line, "level=WARN"):
			color = ColorWarning
		case strings.Contains(line, "level=DEBUG"):
			color = ColorDim
		}
		out[i] = lipgloss.NewStyle().Foreground(color).Render(line)
	}
	return out
}

func (v *LogView) View() string {
	status := StyleSuccess.Render("● FOLLOWING")
	if v.paused {
		status = StyleWarning.Render("● PAUSED")
	}
	header := fmt.Sprintf("%s  %s  %s", StyleTitle.Render("📋 Application log"), status, StyleDimmed.Render(v.path))
	if v.err != nil {
		header += "\n" + StyleError.Render("ERROR: "+v.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, v.viewport.Render())
}
