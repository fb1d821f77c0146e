package channels_test

import (
	"testing"

	"github.com/alkime/knobs/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](ch <-chan T) []T {
	var out []T

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		default:
			return out
		}
	}
}

func TestBroadcaster(t *testing.T) {
	t.Run("every subscriber receives every message", func(t *testing.T) {
		b := channels.NewBroadcaster[int]()
		a, unsubA, err := b.Subscribe(8)
		require.NoError(t, err)
		defer unsubA()
		c, unsubC, err := b.Subscribe(8)
		require.NoError(t, err)
		defer unsubC()

		for i := 1; i <= 3; i++ {
			assert.Equal(t, 0, b.Publish(i))
		}

		assert.Equal(t, []int{1, 2, 3}, drain(a))
		assert.Equal(t, []int{1, 2, 3}, drain(c))
	})

	t.Run("full subscriber misses messages without blocking others", func(t *testing.T) {
		b := channels.NewBroadcaster[int]()
		slow, unsubSlow, err := b.Subscribe(1)
		require.NoError(t, err)
		defer unsubSlow()
		fast, unsubFast, err := b.Subscribe(10)
		require.NoError(t, err)
		defer unsubFast()

		assert.Equal(t, 0, b.Publish(1))
		assert.Equal(t, 1, b.Publish(2))
		assert.Equal(t, 1, b.Publish(3))

		assert.Equal(t, []int{1}, drain(slow))
		assert.Equal(t, []int{1, 2, 3}, drain(fast))
	})

	t.Run("unsubscribe closes the channel once", func(t *testing.T) {
		b := channels.NewBroadcaster[string]()
		ch, unsub, err := b.Subscribe(1)
		require.NoError(t, err)
		require.Equal(t, 1, b.Len())

		unsub()
		unsub()
		assert.Equal(t, 0, b.Len())

		_, ok := <-ch
		assert.False(t, ok)
		assert.Equal(t, 0, b.Publish("late"))
	})

	t.Run("close ends subscriptions", func(t *testing.T) {
		b := channels.NewBroadcaster[int]()
		ch, unsub, err := b.Subscribe(1)
		require.NoError(t, err)

		b.Close()
		b.Close()
		unsub()

		_, ok := <-ch
		assert.False(t, ok)

		_, _, err = b.Subscribe(1)
		assert.ErrorIs(t, err, channels.ErrClosed)
	})
}
