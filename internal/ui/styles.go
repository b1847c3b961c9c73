package ui

import (
	"cenov2/internal/power"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorBg      = "#0c0c12"
	ColorSurface = "#13131e"
	ColorBorder  = "#1e1e2c" // row borders, separators
	ColorText    = "#d8dce8"
	ColorMuted   = "#4a4f6a" // hints, inactive spokes
	ColorAccent  = "#00d4ff" // titles, balanced mode, info lines
	ColorGreen   = "#00c97a" // ok lines, power-saver mode
	ColorRed     = "#ff4555" // errors, performance mode
	ColorAmber   = "#ffb340" // pending selection hints
	ColorViolet  = "#8b7cf8" // echoed commands
	ColorPurple  = "#7c3aed" // logo inner ring
)

// modeColors maps each mode to its stripe and badge color.
var modeColors = map[power.Mode]string{
	power.ModePerformance: ColorRed,
	power.ModeBalanced:    ColorAccent,
	power.ModePowerSaver:  ColorGreen,
}

// Styles contains shared style definitions used across widgets.
var Styles = struct {
	Title      lipgloss.Style // Bold text - app name
	Subtitle   lipgloss.Style // Muted - tagline
	RowName    lipgloss.Style // Bold text - mode row title
	Muted      lipgloss.Style // Dimmed text
	Button     lipgloss.Style // Apply button
	ButtonBusy lipgloss.Style // Apply button while a command runs
	Rule       lipgloss.Style // Horizontal separators
	LogBox     lipgloss.Style // Log pane frame
	HelpBox    lipgloss.Style // Leader help box

	// Log line styles
	LineCmd  lipgloss.Style
	LineOK   lipgloss.Style
	LineErr  lipgloss.Style
	LineInfo lipgloss.Style
	LineWarn lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	RowName: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Button: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(ColorAccent)).
		Padding(0, 3),
	ButtonBusy: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorMuted)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 3),
	Rule: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBorder)),
	LogBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1),
	HelpBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1),

	LineCmd:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorViolet)),
	LineOK:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
	LineErr:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
	LineInfo: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
	LineWarn: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAmber)),
}

// hintKind selects the color of the hint next to the apply button.
type hintKind int

const (
	hintMuted hintKind = iota
	hintPending
	hintError
	hintSuccess
)

func hintStyle(k hintKind) lipgloss.Style {
	switch k {
	case hintPending:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAmber))
	case hintError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed))
	case hintSuccess:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen))
	default:
		return Styles.Muted
	}
}
