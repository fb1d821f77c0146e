package page

import (
	"context"
	"sync"
)

// Serialized gives goroutines exclusive turns at a page that has no UI
// event loop of its own, as when running headless.
type Serialized struct {
	mu   sync.Mutex
	page *Page
}

// NewSerialized wraps p. Once wrapped, p must only be used through the
// wrapper.
func NewSerialized(p *Page) *Serialized {
	return &Serialized{page: p}
}

// SetAttr writes value to the named widget and returns its committed state.
func (s *Serialized) SetAttr(ctx context.Context, widget, value string) (Change, error) {
	if err := ctx.Err(); err != nil {
		return Change{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.page.SetAttr(widget, value); err != nil {
		return Change{}, err
	}

	return s.page.State(widget)
}

// Snapshot returns the committed value of every widget.
func (s *Serialized) Snapshot() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page.Snapshot()
}
