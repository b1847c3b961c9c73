package ui

import (
	"cenov2/internal/power"

	"github.com/charmbracelet/lipgloss"
)

// modeRow describes one selectable row.
type modeRow struct {
	Mode     power.Mode
	Name     string
	Subtitle string
}

var modeRows = []modeRow{
	{power.ModePerformance, "PERFORMANCE", "Max CPU / gaming"},
	{power.ModeBalanced, "BALANCED", "Adaptive / daily use"},
	{power.ModePowerSaver, "POWER SAVER", "Battery / quiet"},
}

// rowIndex returns the row index of m, or -1.
func rowIndex(m power.Mode) int {
	for i, r := range modeRows {
		if r.Mode == m {
			return i
		}
	}
	return -1
}

// renderModeRow draws one row. Selected rows get a border in the mode's
// color; the applied row carries an "active" badge.
func renderModeRow(r modeRow, width int, selected, active bool) string {
	color := lipgloss.Color(modeColors[r.Mode])
	border := lipgloss.Color(ColorBorder)
	if selected {
		border = color
	}

	stripe := lipgloss.NewStyle().Foreground(color).Render("▌\n▌")
	text := lipgloss.JoinVertical(lipgloss.Left,
		Styles.RowName.Render(r.Name),
		Styles.Muted.Render(r.Subtitle),
	)

	badge := ""
	if active {
		badge = lipgloss.NewStyle().Foreground(color).Render("active")
	}

	inner := width - 4 // border + padding
	if inner < 20 {
		inner = 20
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, stripe, " ", text)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), badge)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(inner + 2).
		Render(body)
}
