// Package scope draws the player's most recent output as a mirrored
// amplitude envelope, oldest samples on the left.
package scope

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	full     = '█'
	upper    = '▀'
	lower    = '▄'
	baseline = '·'
)

// TickMsg triggers a redraw.
type TickMsg struct{}

// Model reads samples from a Levels control on every tick. Each column shows
// the peak of its bucket of samples as a bar growing out from the middle,
// drawn in half-cell steps.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
	every  time.Duration
}

// New creates a scope width columns wide and height rows tall.
func New(levels uictl.Levels[int16], width, height int) Model {
	return Model{
		levels: levels,
		width:  max(1, width),
		height: max(1, height),
		every:  50 * time.Millisecond,
	}
}

// Resize changes the drawing width.
func (m Model) Resize(width int) Model {
	m.width = max(1, width)
	return m
}

// Height returns the number of lines View produces.
func (m Model) Height() int { return m.height }

// Init starts the redraw ticks.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update keeps the redraw ticks going.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, m.tick()
	}

	return m, nil
}

// View renders the envelope.
func (m Model) View() string {
	var samples []int16
	if m.levels != nil {
		samples = m.levels.Read()
	}

	spans := m.spans(samples)
	rows := make([]string, m.height)

	for r := range rows {
		var sb strings.Builder
		for _, span := range spans {
			sb.WriteRune(m.glyph(span, r))
		}

		rows[r] = style.Wave.Render(sb.String())
	}

	return strings.Join(rows, "\n")
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.every, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// spans returns, per column, how many half-rows the bar extends above and
// below the middle line.
func (m Model) spans(samples []int16) []int {
	spans := make([]int, m.width)
	if len(samples) == 0 {
		return spans
	}

	bucket := max(1, len(samples)/m.width)

	for col := range spans {
		start := col * bucket
		if start >= len(samples) {
			break
		}

		peak := peakOf(samples[start:min(start+bucket, len(samples))])
		// sqrt keeps quiet passages visible
		spans[col] = int(math.Round(math.Sqrt(peak) * float64(m.height)))
	}

	return spans
}

// glyph picks the character for row r of a column whose bar covers the
// half-rows [height-span, height+span).
func (m Model) glyph(span, r int) rune {
	if span == 0 {
		if r == m.height/2 {
			return baseline
		}

		return ' '
	}

	lo, hi := m.height-span, m.height+span
	top := 2*r >= lo && 2*r < hi
	bottom := 2*r+1 >= lo && 2*r+1 < hi

	switch {
	case top && bottom:
		return full
	case top:
		return upper
	case bottom:
		return lower
	default:
		return ' '
	}
}

// peakOf returns the largest absolute amplitude in samples, scaled to [0,1].
func peakOf(samples []int16) float64 {
	var peak float64
	for _, s := range samples {
		peak = max(peak, math.Abs(float64(s)))
	}

	return min(1, peak/math.MaxInt16)
}
