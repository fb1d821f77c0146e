// Package dial renders a widget.Dial as a ring with a needle and its stop
// labels around it, and turns mouse presses into dial gestures.
package dial

import (
	"math"
	"strings"

	"github.com/alkime/knobs/internal/pointer"
	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultRadius is the ring radius in columns.
const DefaultRadius = 8

// labelGap is the distance between ring and stop labels, in columns.
const labelGap = 2

type kind uint8

const (
	blank kind = iota
	ring
	needle
	hub
	label
	selected
)

var kindStyle = map[kind]lipgloss.Style{
	ring:     style.Muted,
	needle:   style.Track,
	hub:      style.Thumb,
	label:    style.Muted,
	selected: style.Key,
}

type cell struct {
	r rune
	k kind
}

// labelRect is the span [from, to) of canvas row row covered by stop index.
type labelRect struct {
	row, from, to int
	index         int
}

// Model is a title line followed by the dial canvas. The origin is the
// terminal cell of the title's first column.
type Model struct {
	dial   *widget.Dial
	scope  *pointer.Scope
	title  string
	radius int
	rows   int // canvas rows above the center row
	half   int // canvas columns left of the center column
	labels []labelRect
	x, y   int
}

// New lays out a dial view with the given ring radius in columns.
func New(d *widget.Dial, scope *pointer.Scope, title string, radius int) Model {
	radius = max(2, radius)
	reach := radius + labelGap

	labelW := 0
	for _, s := range d.Stops() {
		labelW = max(labelW, lipgloss.Width(s.Text))
	}

	m := Model{
		dial:   d,
		scope:  scope,
		title:  title,
		radius: radius,
		rows:   (reach + pointer.CellAspect - 1) / pointer.CellAspect,
		half:   reach + labelW,
	}

	for i, s := range d.Stops() {
		m.labels = append(m.labels, m.placeLabel(i, s, float64(reach)))
	}

	return m.At(0, 0)
}

// At places the component's origin and records the dial's center in
// pointer space.
func (m Model) At(x, y int) Model {
	m.x, m.y = x, y
	c := pointer.CellEvent(x+m.half, y+1+m.rows)
	m.dial.SetCenter(widget.Point(c))

	return m
}

// Height returns the number of lines View produces.
func (m Model) Height() int { return 1 + 2*m.rows + 1 }

// Width returns the canvas width in columns.
func (m Model) Width() int { return 2*m.half + 1 }

// Update handles left-button presses: a press on a stop label selects that
// stop, a press on the face starts a drag.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mm, ok := msg.(tea.MouseMsg)
	if !ok || mm.Action != tea.MouseActionPress || mm.Button != tea.MouseButtonLeft {
		return m, nil
	}

	row, col := mm.Y-m.y-1, mm.X-m.x

	for _, l := range m.labels {
		if row == l.row && col >= l.from && col < l.to {
			m.dial.Click(l.index)
			return m, nil
		}
	}

	ev := pointer.CellEvent(mm.X, mm.Y)
	c := m.dial.Center()

	if math.Hypot(ev.X-c.X, ev.Y-c.Y) <= float64(m.radius+1) {
		m.dial.PressIndicator(m.scope, ev)
	}

	return m, nil
}

// View renders the title line and the canvas.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Label.Render(m.title))
	sb.WriteString(" ")
	sb.WriteString(style.Value.Render(m.dial.Attr()))

	for _, row := range m.canvas() {
		sb.WriteString("\n")
		writeRow(&sb, row)
	}

	return sb.String()
}

func (m Model) canvas() [][]cell {
	grid := make([][]cell, 2*m.rows+1)
	for r := range grid {
		grid[r] = make([]cell, m.Width())
		for c := range grid[r] {
			grid[r][c] = cell{' ', blank}
		}
	}

	for r := range grid {
		for c := range grid[r] {
			dx := float64(c - m.half)
			dy := float64((r - m.rows) * pointer.CellAspect)

			if math.Abs(math.Hypot(dx, dy)-float64(m.radius)) < 0.8 {
				grid[r][c] = cell{'·', ring}
			}
		}
	}

	theta := m.dial.Rotation() * math.Pi / 180
	for t := 1.0; t <= float64(m.radius-1); t += 0.5 {
		c, r := m.toCell(theta, t)
		grid[r][c] = cell{'•', needle}
	}

	grid[m.rows][m.half] = cell{'◉', hub}

	current, _ := m.dial.StopFor(m.dial.Attr())
	stops := m.dial.Stops()

	for _, l := range m.labels {
		k := label
		if stops[l.index].Value == current.Value {
			k = selected
		}

		for i, r := range []rune(stops[l.index].Text) {
			if c := l.from + i; c >= 0 && c < len(grid[l.row]) {
				grid[l.row][c] = cell{r, k}
			}
		}
	}

	return grid
}

// toCell maps a point t columns out from the center along the direction of
// theta to its canvas cell. Zero degrees points left and 90 points up.
func (m Model) toCell(theta, t float64) (col, row int) {
	px := float64(m.half) - math.Cos(theta)*t
	py := float64(m.rows*pointer.CellAspect) - math.Sin(theta)*t

	return int(math.Round(px)), int(math.Round(py / pointer.CellAspect))
}

func (m Model) placeLabel(i int, s widget.Stop, reach float64) labelRect {
	theta := s.Angle * math.Pi / 180
	col, row := m.toCell(theta, reach)
	w := lipgloss.Width(s.Text)

	from := col - w + 1 // left half: text ends at the anchor
	switch {
	case math.Abs(math.Cos(theta)) < 0.25:
		from = col - w/2
	case s.Flipped():
		from = col
	}

	return labelRect{row: row, from: from, to: from + w, index: i}
}

// writeRow renders runs of equally styled cells together.
func writeRow(sb *strings.Builder, row []cell) {
	for start := 0; start < len(row); {
		end := start
		var run strings.Builder

		for end < len(row) && row[end].k == row[start].k {
			run.WriteRune(row[end].r)
			end++
		}

		if st, ok := kindStyle[row[start].k]; ok {
			sb.WriteString(st.Render(run.String()))
		} else {
			sb.WriteString(run.String())
		}

		start = end
	}
}
