package events

import (
	"sync"
	"sync/atomic"
)

// Subscription identifies a registered listener
type Subscription uint64

type listenerEntry[T any] struct {
	id Subscription
	fn func(T)
}

// Topic is a synchronous publish mechanism.
//
// Publish calls every listener subscribed at the moment of publication, in
// subscription order, on the calling goroutine. Listeners may subscribe or
// unsubscribe from inside a callback; the change applies to the next Publish.
// Nothing is buffered for late subscribers.
type Topic[T any] struct {
	mu        sync.RWMutex
	nextID    Subscription
	listeners []listenerEntry[T]
}

// Bus carries world events
type Bus = Topic[GameEvent]

// NewTopic creates an empty topic
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{}
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return NewTopic[GameEvent]()
}

// Subscribe registers a listener and returns a handle for Unsubscribe
func (t *Topic[T]) Subscribe(fn func(T)) Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.listeners = append(t.listeners, listenerEntry[T]{id: t.nextID, fn: fn})
	return t.nextID
}

// Unsubscribe removes a listener, preserving the order of the rest.
// Returns false if the subscription was not registered.
func (t *Topic[T]) Unsubscribe(id Subscription) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, l := range t.listeners {
		if l.id == id {
			t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers the value to every current listener in subscription order
func (t *Topic[T]) Publish(value T) {
	t.mu.RLock()
	snapshot := make([]listenerEntry[T], len(t.listeners))
	copy(snapshot, t.listeners)
	t.mu.RUnlock()

	for _, l := range snapshot {
		l.fn(value)
	}
}

// SubscriberCount returns the number of registered listeners
func (t *Topic[T]) SubscriberCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.listeners)
}

// ChannelSubscription adapts a topic to a buffered channel for consumers
// running on their own goroutine. Sends never block the publisher; values
// that do not fit in the buffer are dropped and counted.
type ChannelSubscription[T any] struct {
	topic   *Topic[T]
	id      Subscription
	mu      sync.Mutex
	ch      chan T
	closed  bool
	dropped atomic.Uint64
}

// SubscribeChannel registers a buffered channel listener
func (t *Topic[T]) SubscribeChannel(buffer int) *ChannelSubscription[T] {
	if buffer < 1 {
		buffer = 1
	}
	sub := &ChannelSubscription[T]{topic: t, ch: make(chan T, buffer)}
	sub.id = t.Subscribe(sub.offer)
	return sub
}

func (s *ChannelSubscription[T]) offer(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.ch <- value:
	default:
		s.dropped.Add(1)
	}
}

// C returns the receive side of the subscription
func (s *ChannelSubscription[T]) C() <-chan T {
	return s.ch
}

// Dropped returns how many values were discarded because the buffer was full
func (s *ChannelSubscription[T]) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unsubscribes and closes the channel. Safe to call more than once.
func (s *ChannelSubscription[T]) Close() {
	s.topic.Unsubscribe(s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
