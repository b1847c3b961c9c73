package ui

import (
	"time"

	"cenov2/internal/power"
	"cenov2/internal/status"
)

// SelectModeMsg selects a mode as the pending choice (1/2/3 keys).
type SelectModeMsg struct {
	Mode power.Mode
}

// MoveSelectionMsg moves the pending choice up (-1) or down (+1).
type MoveSelectionMsg struct {
	Delta int
}

// ApplyMsg asks to apply the pending choice (enter, a, SPC a).
type ApplyMsg struct{}

// RefreshMsg re-reads the active mode and status footer (r, SPC r).
type RefreshMsg struct{}

// currentModeMsg carries the result of the background mode read.
type currentModeMsg struct {
	Mode power.Mode
	Err  error
	// Gen is the apply generation the read started in.
	Gen int
}

// applyDoneMsg carries the result of a background apply.
type applyDoneMsg struct {
	Mode   power.Mode
	Report *power.Report
	Err    error
}

// statusMsg carries a freshly collected footer snapshot.
type statusMsg struct {
	Snapshot status.Snapshot
}

// statusTickMsg triggers the periodic footer refresh.
type statusTickMsg time.Time
