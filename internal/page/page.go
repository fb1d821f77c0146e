// Package page hosts the widgets of one screen and connects their committed
// values to the rest of the program: the slider drives the player's playback
// rate and every change is published as a Change event.
package page

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/knobs/internal/pointer"
	"github.com/alkime/knobs/internal/widget"
	"github.com/alkime/knobs/pkg/channels"
	"github.com/alkime/knobs/pkg/uictl"
)

const (
	SliderName = "slider"
	DialName   = "dial"
)

// ErrUnknownWidget is returned for writes addressed to a widget the page
// does not have.
var ErrUnknownWidget = errors.New("unknown widget")

// Change describes a widget's committed value.
type Change struct {
	Widget string  `json:"widget"`
	Value  float64 `json:"value"`
	Attr   string  `json:"attr"`
}

// Deps are the page's outside collaborators. All are optional.
type Deps struct {
	// Rate receives the slider value as playback rate.
	Rate uictl.Fader[float64]
	// Transport is switched on by the first pointer press.
	Transport uictl.Knob
	// Events receives a Change for every committed value change.
	Events *channels.Broadcaster[Change]
	// Scope delivers pointer moves and releases to dragging widgets.
	Scope *pointer.Scope
}

// Page owns a slider and a dial. It is not safe for concurrent use; every
// call is expected from the UI event loop.
type Page struct {
	layout Layout
	deps   Deps

	slider *widget.Slider
	dial   *widget.Dial

	pressed bool
	unsubs  []func()
}

// New builds the page's widgets from layout and subscribes to their changes.
func New(layout Layout, deps Deps) (*Page, error) {
	dial, err := widget.NewDial(layout.Dial.Value, layout.Dial.Stops)
	if err != nil {
		return nil, fmt.Errorf("failed to build dial: %w", err)
	}

	if deps.Scope == nil {
		deps.Scope = pointer.NewScope()
	}

	p := &Page{
		layout: layout,
		deps:   deps,
		slider: widget.NewSlider(layout.Slider.Value),
		dial:   dial,
	}

	p.unsubs = append(p.unsubs,
		p.slider.OnChange(p.sliderChanged),
		p.dial.OnChange(p.dialChanged),
	)

	if deps.Rate != nil {
		deps.Rate.Set(p.slider.Value())
	}

	return p, nil
}

func (p *Page) Layout() Layout         { return p.layout }
func (p *Page) Slider() *widget.Slider { return p.slider }
func (p *Page) Dial() *widget.Dial     { return p.dial }
func (p *Page) Scope() *pointer.Scope  { return p.deps.Scope }

// Pressed is called for every pointer press on the page. The first one
// starts playback.
func (p *Page) Pressed() {
	if p.pressed {
		return
	}

	p.pressed = true

	if p.deps.Transport != nil && !p.deps.Transport.Read() {
		slog.Debug("page: first press, starting playback")
		p.deps.Transport.On()
	}
}

// SetAttr writes text to the value attribute of the named widget.
func (p *Page) SetAttr(name, text string) error {
	switch name {
	case SliderName:
		p.slider.SetAttr(text)
	case DialName:
		p.dial.SetAttr(text)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}

	return nil
}

// State returns the committed value of the named widget.
func (p *Page) State(name string) (Change, error) {
	switch name {
	case SliderName:
		return p.sliderState(), nil
	case DialName:
		return p.dialState(), nil
	default:
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
}

// Snapshot returns the committed value of every widget.
func (p *Page) Snapshot() []Change {
	return []Change{p.sliderState(), p.dialState()}
}

// Close cancels any gesture and drops the page's subscriptions.
func (p *Page) Close() {
	for _, unsub := range p.unsubs {
		unsub()
	}

	p.unsubs = nil
	p.slider.Close()
	p.dial.Close()
}

func (p *Page) sliderChanged(s *widget.Slider) {
	if p.deps.Rate != nil {
		p.deps.Rate.Set(s.Value())
	}

	p.publish(p.sliderState())
}

func (p *Page) dialChanged(d *widget.Dial) {
	slog.Info("dial changed", "value", d.Attr())
	p.publish(p.dialState())
}

func (p *Page) publish(c Change) {
	if p.deps.Events == nil {
		return
	}

	if missed := p.deps.Events.Publish(c); missed > 0 {
		slog.Debug("page: change missed by subscribers", "widget", c.Widget, "missed", missed)
	}
}

func (p *Page) sliderState() Change {
	return Change{Widget: SliderName, Value: p.slider.Value(), Attr: p.slider.Attr()}
}

func (p *Page) dialState() Change {
	return Change{Widget: DialName, Value: p.dial.Value(), Attr: p.dial.Attr()}
}
