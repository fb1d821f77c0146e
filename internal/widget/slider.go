package widget

import (
	"log/slog"

	"github.com/alkime/knobs/internal/pointer"
)

// SliderPrecision is the number of decimal digits a slider value keeps.
const SliderPrecision = 3

// Slider maps horizontal pointer movement along a track to a value in [0,1].
type Slider struct {
	attr       string
	position   float64
	trackWidth float64

	gesture   gesture
	listeners listeners[*Slider]
}

// NewSlider creates a slider from its initial value attribute. Missing or
// malformed attributes read as 0; out-of-range values are clamped.
func NewSlider(attr string) *Slider {
	s := &Slider{}
	s.attr = normalizeSlider(ParseValue(attr))
	s.render()

	return s
}

// Value returns the committed value.
func (s *Slider) Value() float64 {
	return ParseValue(s.attr)
}

// Attr returns the committed value attribute text.
func (s *Slider) Attr() string {
	return s.attr
}

// Position returns the rendered indicator position as a fraction of the track.
func (s *Slider) Position() float64 {
	return s.position
}

// SetValue clamps v to [0,1], rounds it and commits it. Non-finite values are
// ignored. Every write to the slider goes through here.
func (s *Slider) SetValue(v float64) {
	if !isFinite(v) {
		slog.Debug("slider: ignoring non-finite value", "value", v)
		return
	}

	s.commit(normalizeSlider(v))
}

// SetAttr is an external write of the value attribute.
func (s *Slider) SetAttr(text string) {
	s.SetValue(ParseValue(text))
}

// OnChange registers fn to run whenever the committed value changes.
func (s *Slider) OnChange(fn func(*Slider)) (unsubscribe func()) {
	return s.listeners.add(fn)
}

// SetTrackWidth records the rendered track length in pointer units.
func (s *Slider) SetTrackWidth(w float64) {
	s.trackWidth = w
}

// TrackWidth returns the last recorded track length.
func (s *Slider) TrackWidth() float64 {
	return s.trackWidth
}

// Dragging reports whether a gesture is in progress.
func (s *Slider) Dragging() bool {
	return s.gesture.active()
}

// PressIndicator starts a drag from the indicator. It reports false if a
// drag is already in progress.
func (s *Slider) PressIndicator(scope *pointer.Scope, ev pointer.Event) bool {
	return s.gesture.begin(scope, s.handler(), ev.X)
}

// PressTrack jumps the value to offsetX along the track and then keeps
// dragging from there. It reports false if a drag is already in progress.
func (s *Slider) PressTrack(scope *pointer.Scope, ev pointer.Event, offsetX float64) bool {
	if s.gesture.active() || scope == nil {
		return false
	}

	if v, ok := ratio(offsetX, s.trackWidth); ok {
		s.SetValue(v)
	}

	return s.gesture.begin(scope, s.handler(), ev.X)
}

// Cancel ends a gesture without further changes, e.g. when pointer capture
// is lost. Moves already applied stay committed.
func (s *Slider) Cancel() {
	s.gesture.end()
}

// Close tears the slider down: any gesture registration is released and
// listeners are dropped.
func (s *Slider) Close() {
	s.gesture.end()
	s.listeners.clear()
}

func (s *Slider) handler() pointer.Handler {
	return pointer.HandlerFuncs{
		OnMove: s.move,
		OnUp:   func(pointer.Event) { s.gesture.end() },
	}
}

func (s *Slider) move(ev pointer.Event) {
	if !s.gesture.active() {
		return
	}

	delta, ok := ratio(ev.X-s.gesture.last, s.trackWidth)
	s.gesture.last = ev.X

	if !ok {
		return
	}

	s.SetValue(s.Value() + delta)
}

func (s *Slider) commit(attr string) {
	old := s.attr
	s.attr = attr
	s.render()

	if ParseValue(old) != ParseValue(attr) {
		s.listeners.emit(s)
	}
}

func (s *Slider) render() {
	s.position = s.Value()
}

func normalizeSlider(v float64) string {
	return FormatValue(RoundToPrecision(Clamp(v, 0, 1), SliderPrecision))
}
