package ui

import (
	"context"
	"time"

	"cenov2/internal/power"

	tea "github.com/charmbracelet/bubbletea"
)

// readCurrentCmd reads the active mode off the UI goroutine.
func readCurrentCmd(b Backend, gen int) tea.Cmd {
	return func() tea.Msg {
		m, err := b.Current(context.Background())
		return currentModeMsg{Mode: m, Err: err, Gen: gen}
	}
}

// applyCmd runs the backend apply off the UI goroutine.
func applyCmd(b Backend, mode power.Mode) tea.Cmd {
	return func() tea.Msg {
		rep, err := b.Apply(context.Background(), mode)
		return applyDoneMsg{Mode: mode, Report: rep, Err: err}
	}
}

// collectStatusCmd gathers a footer snapshot off the UI goroutine.
func collectStatusCmd(s StatusSource) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{Snapshot: s.Collect(context.Background())}
	}
}

// statusTickCmd schedules the next footer refresh.
func statusTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}
