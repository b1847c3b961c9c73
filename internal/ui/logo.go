package ui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const logoInterval = 90 * time.Millisecond

// logoTickMsg advances the logo animation.
type logoTickMsg time.Time

// spoke is one arm of the logo on a 3x5 character grid.
type spoke struct {
	row, col int
	glyph    string
}

// spokes run clockwise from three o'clock.
var spokes = [8]spoke{
	{1, 4, "─"},
	{2, 3, "╲"},
	{2, 2, "│"},
	{2, 1, "╱"},
	{1, 0, "─"},
	{0, 1, "╲"},
	{0, 2, "│"},
	{0, 3, "╱"},
}

// Logo draws rotating spokes around a pulsing core.
type Logo struct {
	Frame int
}

// Ensure Logo implements View.
var _ View = (*Logo)(nil)

// NewLogo creates a logo at frame 0.
func NewLogo() *Logo {
	return &Logo{}
}

// Init implements View.
func (l *Logo) Init() tea.Cmd {
	return logoTick()
}

// Update implements View.
func (l *Logo) Update(msg tea.Msg) (View, tea.Cmd) {
	if _, ok := msg.(logoTickMsg); ok {
		l.Frame++
		return l, logoTick()
	}
	return l, nil
}

func logoTick() tea.Cmd {
	return tea.Tick(logoInterval, func(t time.Time) tea.Msg {
		return logoTickMsg(t)
	})
}

// head returns the index of the brightest spoke.
func (l *Logo) head() int {
	return (l.Frame / 2) % len(spokes)
}

// core returns the centre glyph for the current pulse phase.
func (l *Logo) core() string {
	p := 0.6 + 0.4*math.Sin(float64(l.Frame)*12*math.Pi/180)
	switch {
	case p > 0.85:
		return "●"
	case p > 0.45:
		return "•"
	default:
		return "·"
	}
}

// View implements View.
func (l *Logo) View() string {
	var grid [3][5]string
	for r := range grid {
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)).Bold(true)
	trail := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	head := l.head()
	for i, s := range spokes {
		d := (i - head + len(spokes)) % len(spokes)
		switch d {
		case 0, 4:
			grid[s.row][s.col] = accent.Render(s.glyph)
		case 7, 3:
			grid[s.row][s.col] = trail.Render(s.glyph)
		default:
			grid[s.row][s.col] = Styles.Muted.Render(s.glyph)
		}
	}
	grid[1][2] = accent.Render(l.core())

	rows := make([]string, len(grid))
	for r := range grid {
		rows[r] = strings.Join(grid[r][:], "")
	}
	return strings.Join(rows, "\n")
}
