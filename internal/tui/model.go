// Package tui is the terminal host for a page: it lays the widgets out,
// routes mouse input to them and redraws on every change.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alkime/knobs/internal/page"
	"github.com/alkime/knobs/internal/pointer"
	"github.com/alkime/knobs/internal/tui/components/dial"
	"github.com/alkime/knobs/internal/tui/components/scope"
	"github.com/alkime/knobs/internal/tui/components/slider"
	"github.com/alkime/knobs/internal/tui/components/transport"
	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/pkg/channels"
	"github.com/alkime/knobs/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// nudge is how far the arrow keys move the slider.
	nudge = 0.05

	minContentWidth = 24
	maxContentWidth = 64
	scopeHeight     = 3
)

// Config holds TUI settings.
type Config struct {
	// Cancel is called when the user quits.
	Cancel context.CancelFunc
	Title  string
	// Width is the terminal width assumed until the first WindowSizeMsg.
	Width int
}

// Controls provides access to the player for display and transport keys.
type Controls struct {
	PlayPause uictl.Knob
	Rate      uictl.Fader[float64]
	Position  uictl.CappedDial[int64]
	Levels    uictl.Levels[int16]
}

// SetAttrMsg is an external write to a widget's value attribute, delivered
// through tea.Program.Send so it is applied on the event loop. The result
// is sent to Reply, if set, without blocking.
type SetAttrMsg struct {
	Widget string
	Value  string
	Reply  chan<- SetAttrResult
}

// SetAttrResult is the widget's committed state after a SetAttrMsg, or the
// reason the write was rejected.
type SetAttrResult struct {
	Change page.Change
	Err    error
}

type model struct {
	config    Config
	keys      KeyMap
	page      *page.Page
	transport transport.Model
	slider    slider.Model
	dial      dial.Model
	scope     scope.Model
	width     int
	lastErr   error
}

// New creates the host model for pg.
func New(config Config, pg *page.Page, controls Controls) tea.Model {
	if config.Title == "" {
		config.Title = "knobs"
	}

	layout := pg.Layout()
	width := contentWidth(config.Width)

	m := model{
		config: config,
		keys:   DefaultKeyMap(),
		page:   pg,
		transport: transport.New(transport.Controls{
			PlayPause: controls.PlayPause,
			Rate:      controls.Rate,
			Position:  controls.Position,
		}, width),
		slider: slider.New(pg.Slider(), pg.Scope(), layout.Slider.Label, width),
		dial:   dial.New(pg.Dial(), pg.Scope(), layout.Dial.Label, dial.DefaultRadius),
		scope:  scope.New(controls.Levels, width, scopeHeight),
		width:  width,
	}

	return m.place()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.transport.Init(),
		m.scope.Init(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = contentWidth(msg.Width)
		m.slider = m.slider.Resize(m.width)
		m.scope = m.scope.Resize(m.width)
		m.transport = m.transport.Resize(m.width)

		return m.place(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.BlurMsg:
		// Focus loss means the release may never arrive.
		m.page.Slider().Cancel()
		m.page.Dial().Cancel()

		return m, nil

	case SetAttrMsg:
		var res SetAttrResult

		m.lastErr = m.page.SetAttr(msg.Widget, msg.Value)
		if m.lastErr != nil {
			slog.Warn("rejected widget write", "widget", msg.Widget, "error", m.lastErr)
			res.Err = m.lastErr
		} else {
			res.Change, res.Err = m.page.State(msg.Widget)
		}

		if msg.Reply != nil {
			_ = channels.SendNonBlock(msg.Reply, res)
		}

		return m, nil
	}

	var cmd, scopeCmd tea.Cmd
	m.transport, cmd = m.transport.Update(msg)
	m.scope, scopeCmd = m.scope.Update(msg)

	return m, tea.Batch(cmd, scopeCmd)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
		if m.config.Cancel != nil {
			m.config.Cancel()
		}

		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		var cmd tea.Cmd
		m.transport, cmd = m.transport.Update(transport.ToggleMsg{})

		return m, cmd

	case key.Matches(msg, m.keys.Slower):
		s := m.page.Slider()
		s.SetValue(s.Value() - nudge)

	case key.Matches(msg, m.keys.Faster):
		s := m.page.Slider()
		s.SetValue(s.Value() + nudge)

	case key.Matches(msg, m.keys.Stop):
		m.page.Dial().Click(int(msg.Runes[0] - '1'))
	}

	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) model {
	ev := pointer.CellEvent(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}

		m.page.Pressed()
		m.slider, _ = m.slider.Update(msg)
		m.dial, _ = m.dial.Update(msg)

	case tea.MouseActionMotion:
		m.page.Scope().Move(ev)

	case tea.MouseActionRelease:
		m.page.Scope().Up(ev)
	}

	return m
}

// place assigns each component its origin. The row arithmetic mirrors the
// section order in View.
func (m model) place() model {
	row := 2 // title and a blank line

	m.slider = m.slider.At(0, row)
	row += m.slider.Height() + 1

	m.dial = m.dial.At(0, row)

	return m
}

func (m model) View() string {
	sections := []string{
		style.Title.Render(m.config.Title),
		m.slider.View(),
		m.dial.View(),
		m.scope.View(),
		m.transport.View(),
		m.helpView(),
	}

	return strings.Join(sections, "\n\n")
}

func (m model) helpView() string {
	var sb strings.Builder

	for i, b := range m.keys.ShortHelp() {
		if i > 0 {
			sb.WriteString(" ")
		}

		sb.WriteString(renderKeyHelp(b))
	}

	if m.lastErr != nil {
		sb.WriteString("\n")
		sb.WriteString(style.Error.Render(m.lastErr.Error()))
	}

	return sb.String()
}

func renderKeyHelp(b key.Binding) string {
	return style.Help.Render("[") + style.Key.Render(b.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(b.Help().Desc)
}

func contentWidth(termWidth int) int {
	if termWidth <= 0 {
		return maxContentWidth
	}

	return min(max(termWidth-2, minContentWidth), maxContentWidth)
}
