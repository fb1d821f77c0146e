package widget_test

import (
	"testing"

	"github.com/alkime/knobs/internal/pointer"
	"github.com/alkime/knobs/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourStops() []widget.StopDecl {
	return []widget.StopDecl{
		{Value: "0", Text: "A"},
		{Value: "25", Text: "B"},
		{Value: "50", Text: "C"},
		{Value: "75", Text: "D"},
	}
}

func newDial(t *testing.T, attr string) *widget.Dial {
	t.Helper()

	d, err := widget.NewDial(attr, fourStops())
	require.NoError(t, err)
	d.SetCenter(widget.Point{X: 100, Y: 100})

	return d
}

// at returns the pointer position at angle deg around the dial center.
func at(deg float64) pointer.Event {
	switch deg {
	case 0:
		return pointer.Event{X: 50, Y: 100}
	case 45:
		return pointer.Event{X: 50, Y: 50}
	case 90:
		return pointer.Event{X: 100, Y: 50}
	case 180:
		return pointer.Event{X: 150, Y: 100}
	case 270:
		return pointer.Event{X: 100, Y: 150}
	}

	panic("unsupported angle")
}

func TestNewDial_Errors(t *testing.T) {
	t.Parallel()

	_, err := widget.NewDial("", nil)
	require.ErrorIs(t, err, widget.ErrNoStops)

	_, err = widget.NewDial("", []widget.StopDecl{{Value: "1"}, {Value: "1"}})
	require.ErrorIs(t, err, widget.ErrDuplicateStop)
}

func TestNewDial_StopAngles(t *testing.T) {
	t.Parallel()

	d := newDial(t, "")
	stops := d.Stops()

	require.Len(t, stops, 4)
	assert.Equal(t, []float64{0, 90, 180, 270}, []float64{
		stops[0].Angle, stops[1].Angle, stops[2].Angle, stops[3].Angle,
	})
	assert.Equal(t, "B", stops[1].Text)
	assert.False(t, stops[1].Flipped())
	assert.True(t, stops[2].Flipped())
	assert.False(t, stops[3].Flipped())
}

func TestNewDial_InitialRotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr string
		want float64
	}{
		{attr: "", want: 0},
		{attr: "50", want: 180},
		{attr: "75.0", want: 270},
		{attr: "nope", want: 0},
		{attr: "13", want: 0},
	}

	for _, tt := range tests {
		d := newDial(t, tt.attr)
		assert.InDelta(t, tt.want, d.Rotation(), 0, "attr %q", tt.attr)
		assert.Equal(t, tt.attr, d.Attr(), "attribute is kept verbatim")
	}
}

func TestDial_Snap(t *testing.T) {
	t.Parallel()

	d := newDial(t, "")

	tests := []struct {
		r    float64
		want string
	}{
		{r: 80, want: "25"},
		{r: 10, want: "0"},
		{r: 350, want: "0"},
		{r: 300, want: "75"},
		{r: 181, want: "50"},
		{r: 0, want: "0"},
		{r: 45, want: "0"},
		{r: 135, want: "25"},
		{r: 225, want: "50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Snap(tt.r).Value, "Snap(%v)", tt.r)
	}
}

func TestDial_DragSnapsOnRelease(t *testing.T) {
	t.Parallel()

	scope := pointer.NewScope()
	d := newDial(t, "0")
	c := &changeCounter{}
	d.OnChange(c.dial)

	require.True(t, d.PressIndicator(scope, at(0)))
	scope.Move(at(45))
	assert.InDelta(t, 45, d.Rotation(), 1e-9)

	scope.Move(at(90))
	assert.InDelta(t, 90, d.Rotation(), 1e-9, "rotation is live while dragging")
	assert.Equal(t, "0", d.Attr(), "nothing is committed before release")
	assert.Empty(t, c.seen)

	scope.Up(at(90))

	assert.Equal(t, "25", d.Attr())
	assert.InDelta(t, 25, d.Value(), 0)
	assert.InDelta(t, 90, d.Rotation(), 0)
	assert.Equal(t, []string{"25"}, c.seen)
	assert.False(t, d.Dragging())
	assert.Equal(t, 0, scope.Len())
}

func TestDial_DragAcrossSeam(t *testing.T) {
	t.Parallel()

	scope := pointer.NewScope()
	d := newDial(t, "0")

	require.True(t, d.PressIndicator(scope, at(90)))
	scope.Move(at(0))
	assert.InDelta(t, 270, d.Rotation(), 1e-9, "rotation wraps to stay non-negative")

	scope.Up(at(0))
	assert.Equal(t, "75", d.Attr())
}

func TestDial_ReleaseWithoutMovement(t *testing.T) {
	t.Parallel()

	scope := pointer.NewScope()
	d := newDial(t, "50")
	c := &changeCounter{}
	d.OnChange(c.dial)

	require.True(t, d.PressIndicator(scope, at(180)))
	scope.Up(at(180))

	assert.Equal(t, "50", d.Attr())
	assert.Empty(t, c.seen, "no spurious change when the value stays the same")
	assert.Equal(t, 0, scope.Len())
}

func TestDial_OvershootIsDiscarded(t *testing.T) {
	t.Parallel()

	scope := pointer.NewScope()
	d := newDial(t, "0")

	require.True(t, d.PressIndicator(scope, at(0)))
	scope.Move(at(45))
	scope.Up(at(45))

	assert.Equal(t, "0", d.Attr(), "45 ties between 0 and 90, first declared wins")
	assert.InDelta(t, 0, d.Rotation(), 0)
}

func TestDial_Click(t *testing.T) {
	t.Parallel()

	d := newDial(t, "0")
	c := &changeCounter{}
	d.OnChange(c.dial)

	require.True(t, d.Click(2))
	assert.Equal(t, "50", d.Attr())
	assert.InDelta(t, 180, d.Rotation(), 0)

	require.True(t, d.Click(2))
	assert.False(t, d.Click(4))
	assert.False(t, d.Click(-1))

	assert.Equal(t, []string{"50"}, c.seen)
}

func TestDial_SetValueComparesNumerically(t *testing.T) {
	t.Parallel()

	d := newDial(t, "25")
	c := &changeCounter{}
	d.OnChange(c.dial)

	d.SetAttr("25.0")
	assert.Empty(t, c.seen)
	assert.InDelta(t, 90, d.Rotation(), 0)

	d.SetValue("unknown")
	assert.Equal(t, []string{"unknown"}, c.seen)
	assert.InDelta(t, 0, d.Rotation(), 0, "unmatched values render at 0")
	assert.InDelta(t, 0, d.Value(), 0)
}

func TestDial_CancelRestoresCommittedRotation(t *testing.T) {
	t.Parallel()

	scope := pointer.NewScope()
	d := newDial(t, "25")
	c := &changeCounter{}
	d.OnChange(c.dial)

	require.True(t, d.PressIndicator(scope, at(90)))
	assert.False(t, d.PressIndicator(scope, at(0)), "second press while dragging is rejected")

	scope.Move(at(180))
	d.Cancel()

	assert.InDelta(t, 90, d.Rotation(), 0)
	assert.Equal(t, "25", d.Attr())
	assert.Empty(t, c.seen)
	assert.Equal(t, 0, scope.Len())

	require.True(t, d.PressIndicator(scope, at(90)))
	d.Close()
	assert.Equal(t, 0, scope.Len())
}
