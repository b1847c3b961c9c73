package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp produces the transient help view shown after SPC.
func RenderKeybindHelp(keyHandler *KeyHandler) string {
	if keyHandler == nil || !keyHandler.LeaderWaiting {
		return ""
	}
	currentSeq := keyHandler.CurrentSeq()
	bindings := leaderBindings(keyHandler.Registry, currentSeq)
	if len(bindings) == 0 {
		return ""
	}

	helpModel := help.New()
	helpModel.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Bold(true)
	helpModel.Styles.ShortDesc = Styles.Muted
	helpModel.Styles.ShortSeparator = Styles.Muted

	content := Styles.Muted.Render(currentSeq) + " " + helpModel.ShortHelpView(bindings)
	return Styles.HelpBox.Render(content)
}
