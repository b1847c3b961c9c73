package ui

import (
	"strings"

	"cenov2/internal/power"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultLogWidth  = 60
	defaultLogHeight = 7
	maxLogLines      = 500
)

// LogPane shows the command transcript with scrollback.
type LogPane struct {
	lines    []power.Line
	viewport viewport.Model
}

// Ensure LogPane implements View.
var _ View = (*LogPane)(nil)

// NewLogPane creates an empty log pane.
func NewLogPane() *LogPane {
	vp := viewport.New(defaultLogWidth, defaultLogHeight)
	vp.Style = Styles.LogBox
	return &LogPane{viewport: vp}
}

// Init implements View.
func (p *LogPane) Init() tea.Cmd {
	return p.viewport.Init()
}

// Update implements View. Scroll keys are forwarded to the viewport.
func (p *LogPane) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View implements View.
func (p *LogPane) View() string {
	return p.viewport.View()
}

// Append adds lines and scrolls to the bottom.
func (p *LogPane) Append(lines ...power.Line) {
	p.lines = append(p.lines, lines...)
	if over := len(p.lines) - maxLogLines; over > 0 {
		p.lines = append([]power.Line(nil), p.lines[over:]...)
	}
	p.refreshContent()
	p.viewport.GotoBottom()
}

// Info appends an informational line.
func (p *LogPane) Info(text string) {
	p.Append(power.Line{Kind: power.LineInfo, Text: text})
}

// Lines returns the stored lines.
func (p *LogPane) Lines() []power.Line {
	return p.lines
}

// SetSize resizes the pane including its border.
func (p *LogPane) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	p.viewport.Width = width
	p.viewport.Height = height
	p.refreshContent()
	p.viewport.GotoBottom()
}

func (p *LogPane) refreshContent() {
	var b strings.Builder
	for i, l := range p.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lineStyle(l.Kind).Render(l.Text))
	}
	p.viewport.SetContent(b.String())
}

func lineStyle(k power.LineKind) lipgloss.Style {
	switch k {
	case power.LineCommand:
		return Styles.LineCmd
	case power.LineOK:
		return Styles.LineOK
	case power.LineError:
		return Styles.LineErr
	case power.LineWarn:
		return Styles.LineWarn
	default:
		return Styles.LineInfo
	}
}
