package channels

import "sync"

type subscriber[T any] struct {
	ch chan T
}

// Broadcaster delivers every published message to all current subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// message. Subscribers may come and go at any
// time, which suits long-lived streams such as websocket clients.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	subs   map[*subscriber[T]]struct{}
	closed bool
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[*subscriber[T]]struct{})}
}

// Subscribe returns a channel receiving published messages and the func that
// ends the subscription and closes that channel.
func (b *Broadcaster[T]) Subscribe(buffer int) (<-chan T, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrClosed
	}

	sub := &subscriber[T]{ch: make(chan T, max(1, buffer))}
	b.subs[sub] = struct{}{}

	var once sync.Once

	return sub.ch, func() {
		once.Do(func() { b.remove(sub) })
	}, nil
}

// Publish sends msg to every subscriber without blocking.
// It returns the number of subscribers that missed it.
func (b *Broadcaster[T]) Publish(msg T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	missed := 0

	for sub := range b.subs {
		if err := SendNonBlock(sub.ch, msg); err != nil {
			missed++
		}
	}

	return missed
}

// Len returns the number of current subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close ends all subscriptions. Later Subscribe calls fail with ErrClosed and
// Publish becomes a no-op.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for sub := range b.subs {
		close(sub.ch)
	}

	b.subs = map[*subscriber[T]]struct{}{}
}

func (b *Broadcaster[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}

	delete(b.subs, sub)
	close(sub.ch)
}
