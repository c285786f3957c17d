package tui

import (
	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Start launches the TUI for sess and blocks until the user quits.
func Start(sess *session.Session, cfg *config.AppConfig) error {
	p := tea.NewProgram(NewApp(sess, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
