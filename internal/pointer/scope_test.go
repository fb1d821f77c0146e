package pointer_test

import (
	"testing"

	"github.com/alkime/knobs/internal/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	moves []pointer.Event
	ups   []pointer.Event
	onUp  func()
}

func (r *recorder) Move(ev pointer.Event) { r.moves = append(r.moves, ev) }

func (r *recorder) Up(ev pointer.Event) {
	r.ups = append(r.ups, ev)
	if r.onUp != nil {
		r.onUp()
	}
}

func TestScope_DeliversInOrder(t *testing.T) {
	t.Parallel()

	s := pointer.NewScope()
	r := &recorder{}
	release := s.Listen(r)
	defer release()

	s.Move(pointer.Event{X: 1})
	s.Move(pointer.Event{X: 2})
	s.Up(pointer.Event{X: 3})

	assert.Equal(t, []pointer.Event{{X: 1}, {X: 2}}, r.moves)
	assert.Equal(t, []pointer.Event{{X: 3}}, r.ups)
}

func TestScope_ReleaseRemovesHandler(t *testing.T) {
	t.Parallel()

	s := pointer.NewScope()
	r := &recorder{}
	release := s.Listen(r)
	require.Equal(t, 1, s.Len())

	release()
	release()
	assert.Equal(t, 0, s.Len())

	s.Move(pointer.Event{X: 1})
	assert.Empty(t, r.moves)
}

func TestScope_ReleaseDuringUp(t *testing.T) {
	t.Parallel()

	s := pointer.NewScope()
	a := &recorder{}
	b := &recorder{}

	var releaseA func()
	releaseA = s.Listen(a)
	a.onUp = func() { releaseA() }
	releaseB := s.Listen(b)
	defer releaseB()

	s.Up(pointer.Event{})

	assert.Len(t, a.ups, 1)
	assert.Len(t, b.ups, 1, "self-release must not skip later handlers")
	assert.Equal(t, 1, s.Len())
}

func TestCellEvent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pointer.Event{X: 3, Y: 10}, pointer.CellEvent(3, 5))
}
