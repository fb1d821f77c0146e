package tui

import (
	"context"
	"fmt"

	"github.com/alkime/knobs/internal/page"
	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// RemoteWriter applies widget writes from other goroutines by sending them
// to the program's event loop and waiting for the outcome.
type RemoteWriter struct {
	sender Sender
}

// NewRemoteWriter creates a writer that delivers through sender.
func NewRemoteWriter(sender Sender) *RemoteWriter {
	return &RemoteWriter{sender: sender}
}

// SetAttr writes value to the named widget's value attribute and returns the
// widget's committed state.
func (w *RemoteWriter) SetAttr(ctx context.Context, widget, value string) (page.Change, error) {
	reply := make(chan SetAttrResult, 1)
	w.sender.Send(SetAttrMsg{Widget: widget, Value: value, Reply: reply})

	select {
	case res := <-reply:
		return res.Change, res.Err
	case <-ctx.Done():
		return page.Change{}, fmt.Errorf("widget write not applied: %w", ctx.Err())
	}
}
