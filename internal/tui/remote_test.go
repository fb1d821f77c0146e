package tui_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/knobs/internal/page"
	"github.com/alkime/knobs/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopSender applies messages to a page the way the host model does.
type loopSender struct {
	page *page.Page
}

func (s loopSender) Send(msg tea.Msg) {
	m, ok := msg.(tui.SetAttrMsg)
	if !ok {
		return
	}

	res := tui.SetAttrResult{Err: s.page.SetAttr(m.Widget, m.Value)}
	if res.Err == nil {
		res.Change, res.Err = s.page.State(m.Widget)
	}

	m.Reply <- res
}

// dropSender never answers, like a program that has already exited.
type dropSender struct{}

func (dropSender) Send(tea.Msg) {}

func TestRemoteWriter_SetAttr(t *testing.T) {
	t.Parallel()

	pg, err := page.New(page.DefaultLayout(), page.Deps{})
	require.NoError(t, err)

	w := tui.NewRemoteWriter(loopSender{page: pg})

	got, err := w.SetAttr(context.Background(), page.SliderName, "0.25")
	require.NoError(t, err)
	assert.Equal(t, page.Change{Widget: page.SliderName, Value: 0.25, Attr: "0.25"}, got)

	_, err = w.SetAttr(context.Background(), "knob", "1")
	require.ErrorIs(t, err, page.ErrUnknownWidget)
}

func TestRemoteWriter_ContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tui.NewRemoteWriter(dropSender{}).SetAttr(ctx, page.DialName, "50")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
