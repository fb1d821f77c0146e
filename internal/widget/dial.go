package widget

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/alkime/knobs/internal/pointer"
	"github.com/alkime/knobs/pkg/collections"
)

var (
	// ErrNoStops is returned when a dial is declared without any stops.
	ErrNoStops = errors.New("dial needs at least one stop")
	// ErrDuplicateStop is returned when two stops share a value.
	ErrDuplicateStop = errors.New("duplicate stop value")
)

// StopDecl declares one stop of a dial, in the order it should appear.
type StopDecl struct {
	Value string `yaml:"value"`
	Text  string `yaml:"text"`
}

// Stop is a declared stop pinned to its angle on the dial.
type Stop struct {
	Value string
	Text  string
	Angle float64
}

// Flipped reports whether the stop sits on the right half of the dial, where
// its label is drawn mirrored so it stays readable.
func (s Stop) Flipped() bool {
	return s.Angle > 90 && s.Angle < 270
}

// Dial is a rotary control that snaps to a fixed set of evenly spaced stops.
//
// While dragging, the rotation follows the pointer freely; on release it
// snaps to the nearest stop and commits that stop's value.
type Dial struct {
	attr     string
	stops    []Stop
	byValue  map[string]Stop
	rotation float64
	center   Point

	gesture   gesture
	listeners listeners[*Dial]
}

// NewDial creates a dial from its initial value attribute and its stop
// declarations. Stop i of n is placed at i*360/n degrees.
func NewDial(attr string, decls []StopDecl) (*Dial, error) {
	if len(decls) == 0 {
		return nil, ErrNoStops
	}

	space := 360 / float64(len(decls))
	stops := collections.ApplyIndexed(decls, func(i int, d StopDecl) Stop {
		return Stop{Value: d.Value, Text: d.Text, Angle: space * float64(i)}
	})

	byValue := collections.IndexBy(stops, func(s Stop) string { return s.Value })
	if len(byValue) != len(stops) {
		seen := make(map[string]bool, len(stops))
		for _, s := range stops {
			if seen[s.Value] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateStop, s.Value)
			}
			seen[s.Value] = true
		}
	}

	d := &Dial{
		attr:    attr,
		stops:   stops,
		byValue: byValue,
	}
	d.render()

	return d, nil
}

// Value returns the committed value read as a number (0 if it isn't one).
func (d *Dial) Value() float64 {
	return ParseValue(d.attr)
}

// Attr returns the committed value attribute text.
func (d *Dial) Attr() string {
	return d.attr
}

// Rotation returns the rendered indicator angle in degrees.
func (d *Dial) Rotation() float64 {
	return d.rotation
}

// Stops returns the dial's stops in declaration order.
func (d *Dial) Stops() []Stop {
	out := make([]Stop, len(d.stops))
	copy(out, d.stops)

	return out
}

// StopFor returns the stop matching a value attribute, first by text and
// then by numeric value.
func (d *Dial) StopFor(attr string) (Stop, bool) {
	if s, ok := d.byValue[attr]; ok {
		return s, true
	}

	if _, ok := parseFinite(attr); !ok {
		return Stop{}, false
	}

	for _, s := range d.stops {
		if sameValue(s.Value, attr) {
			return s, true
		}
	}

	return Stop{}, false
}

// SetValue commits label verbatim. The label space is the caller's stop
// domain; values that match no stop render at 0°.
func (d *Dial) SetValue(label string) {
	old := d.attr
	d.attr = label
	d.render()

	if !sameValue(old, label) {
		d.listeners.emit(d)
	}
}

// SetAttr is an external write of the value attribute.
func (d *Dial) SetAttr(text string) {
	d.SetValue(text)
}

// OnChange registers fn to run whenever the committed value changes.
func (d *Dial) OnChange(fn func(*Dial)) (unsubscribe func()) {
	return d.listeners.add(fn)
}

// Click selects the i-th stop directly, as clicking its label does.
func (d *Dial) Click(i int) bool {
	if i < 0 || i >= len(d.stops) {
		return false
	}

	d.SetValue(d.stops[i].Value)

	return true
}

// SetCenter records where the dial's center is rendered.
func (d *Dial) SetCenter(c Point) {
	d.center = c
}

// Center returns the last recorded center.
func (d *Dial) Center() Point {
	return d.center
}

// Dragging reports whether a gesture is in progress.
func (d *Dial) Dragging() bool {
	return d.gesture.active()
}

// PressIndicator starts a drag. It reports false if one is already running.
func (d *Dial) PressIndicator(scope *pointer.Scope, ev pointer.Event) bool {
	return d.gesture.begin(scope, d.handler(), AngleOf(Point(ev), d.center))
}

// Snap returns the stop nearest to rotation r. The 0° stop measures its
// distance across the 0/360 seam; every other stop uses the plain
// difference. Ties go to the stop declared first.
func (d *Dial) Snap(r float64) Stop {
	best := d.stops[0]
	bestDist := stopDistance(best, r)

	for _, s := range d.stops[1:] {
		if dist := stopDistance(s, r); dist < bestDist {
			best, bestDist = s, dist
		}
	}

	return best
}

// Cancel abandons a gesture without committing; the indicator returns to the
// committed stop.
func (d *Dial) Cancel() {
	if !d.gesture.active() {
		return
	}

	d.gesture.end()
	d.render()
}

// Close tears the dial down: any gesture registration is released and
// listeners are dropped.
func (d *Dial) Close() {
	d.gesture.end()
	d.listeners.clear()
}

func (d *Dial) handler() pointer.Handler {
	return pointer.HandlerFuncs{
		OnMove: d.move,
		OnUp:   d.up,
	}
}

func (d *Dial) move(ev pointer.Event) {
	if !d.gesture.active() {
		return
	}

	angle := AngleOf(Point(ev), d.center)
	delta := angle - d.gesture.last

	if !isFinite(delta) {
		return
	}

	d.gesture.last = angle
	d.rotation = normalizeDegrees(d.rotation + delta)
}

func (d *Dial) up(pointer.Event) {
	if !d.gesture.active() {
		return
	}

	stop := d.Snap(d.rotation)
	slog.Debug("dial: snapped", "rotation", d.rotation, "stop", stop.Value)

	d.gesture.end()
	d.SetValue(stop.Value)
}

func (d *Dial) render() {
	s, ok := d.StopFor(d.attr)
	if !ok {
		d.rotation = 0
		return
	}

	d.rotation = s.Angle
}

func stopDistance(s Stop, r float64) float64 {
	if s.Angle == 0 {
		return math.Min(math.Abs(360-r), r)
	}

	return math.Abs(s.Angle - r)
}
