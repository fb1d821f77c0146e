package server

import (
	"slices"
	"sync"

	"github.com/alkime/knobs/internal/page"
)

// Store holds the latest committed state of every widget, in the order the
// widgets were first seen.
type Store struct {
	mu     sync.RWMutex
	order  []string
	latest map[string]page.Change
}

// NewStore creates a store seeded with initial.
func NewStore(initial []page.Change) *Store {
	s := &Store{latest: make(map[string]page.Change, len(initial))}
	for _, c := range initial {
		s.Put(c)
	}

	return s
}

// Put records c as the widget's current state.
func (s *Store) Put(c page.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.latest[c.Widget]; !ok {
		s.order = append(s.order, c.Widget)
	}

	s.latest[c.Widget] = c
}

// Get returns the named widget's state.
func (s *Store) Get(name string) (page.Change, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.latest[name]

	return c, ok
}

// All returns every widget's state.
func (s *Store) All() []page.Change {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]page.Change, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.latest[name])
	}

	return slices.Clip(out)
}
