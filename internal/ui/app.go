package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cenov2/internal/power"
	"cenov2/internal/status"
	"cenov2/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Backend is the power control surface the panel drives.
type Backend interface {
	Method() power.Method
	Current(ctx context.Context) (power.Mode, error)
	Apply(ctx context.Context, mode power.Mode) (*power.Report, error)
}

// StatusSource produces footer snapshots.
type StatusSource interface {
	Collect(ctx context.Context) status.Snapshot
}

const defaultWidth = 64

// AppModel is the root model of the control panel.
type AppModel struct {
	Backend    Backend
	Status     StatusSource
	KeyHandler *KeyHandler
	Refresh    time.Duration

	// Selected is the pending choice; Applied is the last confirmed mode.
	Selected power.Mode
	Applied  power.Mode
	Busy     bool

	// applyGen changes when an apply starts or ends; mode reads tagged with
	// an older value are stale.
	applyGen int

	Hint     string
	hintKind hintKind

	Snapshot status.Snapshot
	Logo     *Logo
	Log      *LogPane

	spinner spinner.Model
	width   int
	height  int
	log     zerolog.Logger
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(b Backend, s StatusSource, refresh time.Duration, log zerolog.Logger) *AppModel {
	if refresh <= 0 {
		refresh = status.DefaultInterval
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))

	a := &AppModel{
		Backend:    b,
		Status:     s,
		KeyHandler: NewKeyHandler(defaultKeybinds()),
		Refresh:    refresh,
		Hint:       "select a mode",
		Logo:       NewLogo(),
		Log:        NewLogPane(),
		spinner:    sp,
		width:      defaultWidth,
		log:        log.With().Str("component", "ui").Logger(),
	}
	a.Log.Info("// CenoV2 ready")
	method := "none detected"
	if m := b.Method(); m != power.MethodNone {
		method = m.String()
	}
	a.Log.Info("// method: " + method)
	return a
}

// defaultKeybinds returns the panel's key bindings.
func defaultKeybinds() *KeybindRegistry {
	reg := NewKeybindRegistry()
	apply := func() tea.Msg { return ApplyMsg{} }
	refresh := func() tea.Msg { return RefreshMsg{} }
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("enter", apply, "Apply")
	reg.BindWithDesc("a", apply, "Apply")
	reg.BindWithDesc("r", refresh, "Refresh")
	reg.Bind("j", func() tea.Msg { return MoveSelectionMsg{Delta: 1} })
	reg.Bind("down", func() tea.Msg { return MoveSelectionMsg{Delta: 1} })
	reg.Bind("k", func() tea.Msg { return MoveSelectionMsg{Delta: -1} })
	reg.Bind("up", func() tea.Msg { return MoveSelectionMsg{Delta: -1} })
	for i, r := range modeRows {
		mode := r.Mode
		reg.Bind(fmt.Sprint(i+1), func() tea.Msg { return SelectModeMsg{Mode: mode} })
	}
	reg.BindWithDesc("SPC a", apply, "Apply")
	reg.BindWithDesc("SPC r", refresh, "Refresh")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		a.Logo.Init(),
		readCurrentCmd(a.Backend, a.applyGen),
		collectStatusCmd(a.Status),
		statusTickCmd(a.Refresh),
	)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if a.KeyHandler != nil {
			if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
				return a, keyCmd
			}
		}
		// Unbound keys (pgup, pgdown, ...) scroll the log.
		_, cmd := a.Log.Update(msg)
		return a, cmd
	case logoTickMsg:
		_, cmd := a.Logo.Update(msg)
		return a, cmd
	case spinner.TickMsg:
		if !a.Busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case SelectModeMsg:
		a.selectMode(msg.Mode)
		return a, nil
	case MoveSelectionMsg:
		a.moveSelection(msg.Delta)
		return a, nil
	case ApplyMsg:
		return a, a.apply()
	case RefreshMsg:
		return a, tea.Batch(readCurrentCmd(a.Backend, a.applyGen), collectStatusCmd(a.Status))
	case currentModeMsg:
		a.handleCurrent(msg)
		return a, nil
	case applyDoneMsg:
		a.handleApplyDone(msg)
		return a, nil
	case statusTickMsg:
		// Collection runs in its own Cmd; the next tick is scheduled regardless.
		return a, tea.Batch(collectStatusCmd(a.Status), statusTickCmd(a.Refresh))
	case statusMsg:
		a.Snapshot = msg.Snapshot
		return a, nil
	}
	return a, nil
}

func (a *AppModel) setHint(text string, kind hintKind) {
	a.Hint = text
	a.hintKind = kind
}

func (a *AppModel) selectMode(m power.Mode) {
	if !m.Valid() {
		return
	}
	a.Selected = m
	a.setHint(m.String()+"  ·  press enter to apply", hintPending)
}

func (a *AppModel) moveSelection(delta int) {
	idx := rowIndex(a.Selected)
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(modeRows) - 1
	default:
		idx += delta
		if idx < 0 {
			idx = 0
		}
		if idx >= len(modeRows) {
			idx = len(modeRows) - 1
		}
	}
	a.selectMode(modeRows[idx].Mode)
}

// apply validates the pending choice and starts the backend call.
// It returns nil whenever no external call should happen.
func (a *AppModel) apply() tea.Cmd {
	if a.Busy {
		return nil
	}
	if !a.Selected.Valid() {
		a.setHint("select a mode first", hintError)
		return nil
	}
	if a.Backend.Method() == power.MethodNone {
		a.Log.Append(power.Line{Kind: power.LineError, Text: "[ERR] no power tool found, install power-profiles-daemon"})
		a.setHint("failed, see log", hintError)
		return nil
	}
	if a.Selected == a.Applied {
		a.setHint("already on "+a.Selected.String(), hintMuted)
		return nil
	}

	a.Busy = true
	a.applyGen++
	a.setHint("applying "+a.Selected.String()+"…", hintPending)
	a.log.Debug().Str("mode", a.Selected.String()).Msg("apply requested")
	return tea.Batch(applyCmd(a.Backend, a.Selected), a.spinner.Tick)
}

func (a *AppModel) handleApplyDone(msg applyDoneMsg) {
	a.Busy = false
	a.applyGen++
	if msg.Report != nil {
		a.Log.Append(msg.Report.Lines()...)
	} else if msg.Err != nil {
		a.Log.Append(power.Line{Kind: power.LineError, Text: "[ERR] " + msg.Err.Error()})
	}
	if msg.Err != nil {
		a.setHint("failed, see log", hintError)
		return
	}
	a.Selected = power.ModeUnknown
	a.Applied = msg.Mode
	a.setHint("applied: "+msg.Mode.String(), hintSuccess)
}

func (a *AppModel) handleCurrent(msg currentModeMsg) {
	if a.Busy || msg.Gen != a.applyGen {
		a.log.Debug().Int("gen", msg.Gen).Msg("stale mode read dropped")
		return
	}
	if msg.Err != nil || !msg.Mode.Valid() {
		a.log.Debug().Err(msg.Err).Msg("current mode unknown")
		return
	}
	if msg.Mode != a.Applied {
		a.Log.Info("// current: " + msg.Mode.String())
	}
	a.Applied = msg.Mode
}

func (a *AppModel) resize(width, height int) {
	a.width = width
	a.height = height
	// header 3, rules 3, rows 3x4, apply line 1, footer 1, log border 2
	logHeight := height - 22
	a.Log.SetSize(width-2, logHeight)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	width := a.width
	if width <= 0 {
		width = defaultWidth
	}
	rule := Styles.Rule.Render(strings.Repeat("─", width))

	sections := []string{
		a.headerView(width),
		rule,
		a.rowsView(width),
		rule,
		a.applyView(width),
		rule,
		a.Log.View(),
		a.footerView(width),
	}
	if h := RenderKeybindHelp(a.KeyHandler); h != "" {
		sections = append(sections, h)
	}
	return strings.Join(sections, "\n")
}

func (a *AppModel) headerView(width int) string {
	title := lipgloss.JoinVertical(lipgloss.Left,
		Styles.Title.Render("CenoV2"),
		Styles.Subtitle.Render("power management"),
	)
	left := lipgloss.JoinHorizontal(lipgloss.Center, a.Logo.View(), "  ", title)
	return textutil.Spread(left, Styles.Muted.Render(a.Snapshot.BatteryLabel()), width)
}

func (a *AppModel) rowsView(width int) string {
	rows := make([]string, len(modeRows))
	for i, r := range modeRows {
		rows[i] = renderModeRow(r, width, r.Mode == a.Selected, r.Mode == a.Applied)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *AppModel) applyView(width int) string {
	button := Styles.Button.Render("APPLY")
	if a.Busy {
		button = Styles.ButtonBusy.Render(a.spinner.View() + " ...")
	}
	gov := Styles.Muted.Render(a.Snapshot.GovernorLabel())
	room := width - lipgloss.Width(button) - lipgloss.Width(gov) - 3
	hint := hintStyle(a.hintKind).Render(textutil.Truncate(a.Hint, room))
	return textutil.Spread(button+"  "+hint, gov, width)
}

func (a *AppModel) footerView(width int) string {
	left := Styles.Muted.Render(a.Snapshot.CPULabel())
	return textutil.Spread(left, Styles.Muted.Render("SPC for commands · q quit"), width)
}
