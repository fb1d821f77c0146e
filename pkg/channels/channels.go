// Package channels has generic helpers for sending on channels without
// blocking the sender, and a broadcaster built on them.
package channels

import (
	"errors"
)

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrChannelFull   = errors.New("channel full")
	ErrClosed        = errors.New("broadcaster closed")
)

// SendNonBlock sends msg if ch has room and reports why it didn't otherwise.
// It is safe to call on a closed channel.
func SendNonBlock[T any](ch chan<- T, msg T) (err error) {
	defer func() {
		if recover() != nil {
			err = ErrChannelClosed
		}
	}()

	select {
	case ch <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}
