// Package transport shows whether the player is running, at what rate, and
// where it is in the loop.
package transport

import (
	"fmt"
	"strings"

	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/pkg/uictl"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Controls provides read access to the player. Rate and Position may be nil.
type Controls struct {
	PlayPause uictl.Knob
	Rate      uictl.Fader[float64]
	Position  uictl.CappedDial[int64]
}

// ToggleMsg flips play/pause.
type ToggleMsg struct{}

// Model is the transport status line plus the loop progress bar.
type Model struct {
	controls Controls
	spinner  spinner.Model
	progress progress.Model
}

// New creates a transport view with a progress bar width cells wide.
func New(controls Controls, width int) Model {
	s := spinner.New()
	s.Spinner = spinner.Points

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return Model{
		controls: controls,
		spinner:  s,
		progress: p,
	}
}

// Height returns the number of lines View produces.
func (m Model) Height() int { return 2 }

// Resize changes the progress bar width.
func (m Model) Resize(width int) Model {
	m.progress.Width = width
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles toggles and animation frames.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ToggleMsg:
		if m.controls.PlayPause != nil {
			m.controls.PlayPause.Toggle()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model) //nolint:forcetypeassert // bubbles library contract

		return m, cmd
	}

	return m, nil
}

// Playing reports the player state.
func (m Model) Playing() bool {
	return m.controls.PlayPause != nil && m.controls.PlayPause.Read()
}

// View renders the status line and the progress bar.
func (m Model) View() string {
	var sb strings.Builder

	if m.Playing() {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(style.Title.Render("Playing"))
	} else {
		sb.WriteString(style.Warning.Render("Paused"))
	}

	if m.controls.Rate != nil {
		sb.WriteString(" ")
		sb.WriteString(style.Subtitle.Render(fmt.Sprintf("×%.3g", m.controls.Rate.Read())))
	}

	sb.WriteString("\n")
	sb.WriteString(m.progress.ViewAs(m.fraction()))

	return sb.String()
}

func (m Model) fraction() float64 {
	if m.controls.Position == nil {
		return 0
	}

	pos, length := m.controls.Position.Cap()
	if length <= 0 {
		return 0
	}

	return float64(pos) / float64(length)
}
