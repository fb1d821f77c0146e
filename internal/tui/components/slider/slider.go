// Package slider renders a widget.Slider as a one-line track and turns mouse
// presses on it into slider gestures.
package slider

import (
	"math"
	"strings"

	"github.com/alkime/knobs/internal/pointer"
	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	filled = "━"
	empty  = "─"
	thumb  = "●"
)

// MinWidth is the narrowest track the component draws.
const MinWidth = 4

// Model is a label line followed by the track line. The origin is the
// terminal cell of the label's first column.
type Model struct {
	slider *widget.Slider
	scope  *pointer.Scope
	label  string
	width  int
	x, y   int
}

// New creates a slider view with a track width cells wide.
func New(s *widget.Slider, scope *pointer.Scope, label string, width int) Model {
	m := Model{slider: s, scope: scope, label: label}

	return m.Resize(width)
}

// At places the component's origin.
func (m Model) At(x, y int) Model {
	m.x, m.y = x, y
	return m
}

// Resize sets the track width in cells. The slider's track length is the
// distance the thumb can travel.
func (m Model) Resize(width int) Model {
	m.width = max(MinWidth, width)
	m.slider.SetTrackWidth(float64(m.width - 1))

	return m
}

// Height returns the number of lines View produces.
func (m Model) Height() int { return 2 }

// Update handles left-button presses on the track.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mm, ok := msg.(tea.MouseMsg)
	if !ok || mm.Action != tea.MouseActionPress || mm.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if mm.Y != m.y+1 || mm.X < m.x || mm.X >= m.x+m.width {
		return m, nil
	}

	ev := pointer.CellEvent(mm.X, mm.Y)

	if mm.X == m.x+m.thumbCol() {
		m.slider.PressIndicator(m.scope, ev)
	} else {
		m.slider.PressTrack(m.scope, ev, float64(mm.X-m.x))
	}

	return m, nil
}

// View renders the label line and the track.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Label.Render(m.label))
	sb.WriteString(" ")
	sb.WriteString(style.Value.Render(m.slider.Attr()))
	sb.WriteString("\n")

	col := m.thumbCol()
	sb.WriteString(style.Track.Render(strings.Repeat(filled, col)))
	sb.WriteString(style.Thumb.Render(thumb))
	sb.WriteString(style.Muted.Render(strings.Repeat(empty, m.width-col-1)))

	return sb.String()
}

func (m Model) thumbCol() int {
	col := int(math.Round(m.slider.Position() * float64(m.width-1)))
	return widget.Clamp(col, 0, m.width-1)
}
