package transport_test

import (
	"strings"
	"testing"

	"github.com/alkime/knobs/internal/tui/components/transport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type mockKnob struct {
	state bool
}

func (m *mockKnob) Read() bool { return m.state }
func (m *mockKnob) On()        { m.state = true }
func (m *mockKnob) Off()       { m.state = false }
func (m *mockKnob) Toggle()    { m.state = !m.state }

type mockFader struct {
	value float64
}

func (m *mockFader) Read() float64 { return m.value }
func (m *mockFader) Set(v float64) { m.value = v }

type mockCappedDial struct {
	current, max int64
}

func (m *mockCappedDial) Read() int64         { return m.current }
func (m *mockCappedDial) Cap() (int64, int64) { return m.current, m.max }

func TestTransport_View(t *testing.T) {
	t.Parallel()

	knob := &mockKnob{}
	m := transport.New(transport.Controls{
		PlayPause: knob,
		Rate:      &mockFader{value: 0.5},
		Position:  &mockCappedDial{current: 1, max: 4},
	}, 20)

	view := m.View()
	assert.Contains(t, view, "Paused")
	assert.Contains(t, view, "×0.5")
	assert.Len(t, strings.Split(view, "\n"), m.Height())

	m, _ = m.Update(transport.ToggleMsg{})
	assert.True(t, knob.state)
	assert.True(t, m.Playing())
	assert.Contains(t, m.View(), "Playing")
}

func TestTransport_NilControls(t *testing.T) {
	t.Parallel()

	m := transport.New(transport.Controls{}, 10)
	m, cmd := m.Update(transport.ToggleMsg{})

	assert.Nil(t, cmd)
	assert.False(t, m.Playing())
	assert.Contains(t, m.View(), "Paused")
	assert.NotNil(t, m.Init())
}

func TestTransport_ZeroLength(t *testing.T) {
	t.Parallel()

	m := transport.New(transport.Controls{Position: &mockCappedDial{}}, 10).Resize(12)
	assert.NotPanics(t, func() { _ = m.View() })
}
