// Package pointer delivers pointer move/release events to whoever is tracking
// a drag. A Scope plays the role of the page body: gestures register on it
// when a press starts and must release their registration when it ends.
package pointer

// Event is a pointer position in the coordinate frame of the host.
type Event struct {
	X, Y float64
}

// Handler receives pointer events while registered on a Scope.
type Handler interface {
	Move(ev Event)
	Up(ev Event)
}

// Scope fans pointer events out to registered handlers.
//
// It is not safe for concurrent use; all calls are expected to happen on the
// host's event loop.
type Scope struct {
	next     int
	handlers map[int]Handler
	order    []int
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{handlers: make(map[int]Handler)}
}

// Listen registers h and returns the func that removes it again.
// Calling the returned func more than once is a no-op.
func (s *Scope) Listen(h Handler) (release func()) {
	id := s.next
	s.next++
	s.handlers[id] = h
	s.order = append(s.order, id)

	released := false

	return func() {
		if released {
			return
		}
		released = true
		s.remove(id)
	}
}

// Move delivers a move event to every registered handler.
func (s *Scope) Move(ev Event) {
	for _, h := range s.snapshot() {
		h.Move(ev)
	}
}

// Up delivers a release event to every registered handler.
// Handlers may release themselves while handling it.
func (s *Scope) Up(ev Event) {
	for _, h := range s.snapshot() {
		h.Up(ev)
	}
}

// Len returns the number of registered handlers.
func (s *Scope) Len() int {
	return len(s.handlers)
}

func (s *Scope) snapshot() []Handler {
	hs := make([]Handler, 0, len(s.order))
	for _, id := range s.order {
		hs = append(hs, s.handlers[id])
	}

	return hs
}

func (s *Scope) remove(id int) {
	delete(s.handlers, id)

	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// HandlerFuncs adapts a pair of funcs to a Handler. Nil funcs are skipped.
type HandlerFuncs struct {
	OnMove func(ev Event)
	OnUp   func(ev Event)
}

// Move calls OnMove.
func (h HandlerFuncs) Move(ev Event) {
	if h.OnMove != nil {
		h.OnMove(ev)
	}
}

// Up calls OnUp.
func (h HandlerFuncs) Up(ev Event) {
	if h.OnUp != nil {
		h.OnUp(ev)
	}
}
