// Package tui is the bubbletea binding for the autogrow engine: a chat
// composer whose textarea implements the engine's Surface, plus the demo
// application around it. The binding contains no height-decision logic; it
// translates input events into engine signals and renders what the engine
// applied.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the visual styling for the demo composer.
type Styles struct {
	Title      lipgloss.Style
	Message    lipgloss.Style
	MessageYou lipgloss.Style
	Input      lipgloss.Style
	InputMax   lipgloss.Style
	Status     lipgloss.Style
	StatusBold lipgloss.Style
	ScrollHint lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() Styles {
	border := lipgloss.Color("240")
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("243")

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		MessageYou: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border),
		InputMax: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		Status: lipgloss.NewStyle().
			Foreground(muted),
		StatusBold: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		ScrollHint: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}
