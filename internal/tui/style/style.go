// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// Names omit a "Style" suffix; they read as style.Title, style.Thumb.
var (
	// Title is used for the page header.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Warning is used for the paused state.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Error is used for rejected writes.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys and the selected stop.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Label is used for widget labels.
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Value is used for a widget's committed value.
	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Track is the filled part of a slider track and the dial indicator.
	Track = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63"))

	// Thumb is the slider indicator and the dial hub.
	Thumb = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Muted is used for de-emphasized text: empty track, dial ring, idle stops.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Wave is used for the output scope.
	Wave = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63"))
)
