// Package widget holds the pointer-to-value logic of the slider and the snap
// dial. Each widget keeps a committed value attribute, a rendered indicator
// state derived from it, and at most one drag gesture at a time.
//
// Writes to the value attribute re-render the indicator and then notify
// change listeners, synchronously and in that order, so a listener always
// observes a fully rendered widget. Listeners are only notified when the
// value actually differs from the previous one.
//
// Nothing in here is safe for concurrent use. Hosts drive widgets from a
// single event loop.
package widget

import "github.com/alkime/knobs/internal/pointer"

type listeners[W any] struct {
	fns []func(W)
}

func (l *listeners[W]) add(fn func(W)) (unsubscribe func()) {
	l.fns = append(l.fns, fn)
	i := len(l.fns) - 1

	return func() {
		if i < len(l.fns) {
			l.fns[i] = nil
		}
	}
}

func (l *listeners[W]) emit(w W) {
	for _, fn := range l.fns {
		if fn != nil {
			fn(w)
		}
	}
}

func (l *listeners[W]) clear() {
	l.fns = nil
}

// gesture tracks one press-move-release span. While active it holds a
// registration on the pointer scope that end() gives back.
type gesture struct {
	release func()
	last    float64
}

func (g *gesture) active() bool {
	return g.release != nil
}

// begin starts tracking unless a gesture is already active.
func (g *gesture) begin(scope *pointer.Scope, h pointer.Handler, anchor float64) bool {
	if g.active() || scope == nil {
		return false
	}

	g.release = scope.Listen(h)
	g.last = anchor

	return true
}

func (g *gesture) end() {
	if g.release == nil {
		return
	}

	g.release()
	g.release = nil
}
