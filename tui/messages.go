// messages.go defines Bubble Tea messages used for async communication.
//
// Pipeline operations run in tea.Cmds and report back through these
// message types, ensuring the UI never blocks.
package tui

import "github.com/DachengChen/paiSchema/session"

// OperationDoneMsg is sent when a pipeline operation completes.
type OperationDoneMsg struct {
	Result session.Result
}

// TranscriptSavedMsg is sent when the transcript export completes.
type TranscriptSavedMsg struct {
	Path string
	Err  error
}

// StatusMsg is a transient status message for the status bar.
type StatusMsg string

// selectOperationMsg asks the app to open the form of an operation.
type selectOperationMsg struct {
	index int
}

// submitMsg carries the raw form values of an operation.
type submitMsg struct {
	index  int
	values []string
}

// backMsg returns to the menu.
type backMsg struct{}

// showHistoryMsg opens the transcript of the session so far.
type showHistoryMsg struct{}

// showLogsMsg opens the live application log.
type showLogsMsg struct{}
