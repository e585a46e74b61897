package bus

import "sync"

// Bus is a typed publish/subscribe registry keyed by a string tag.
// The zero value is not usable; create instances with New.
type Bus[T any] struct {
	mu   sync.Mutex
	next uint64
	subs map[string][]*Subscription[T]
}

// Subscription is a handle to one registered listener.
type Subscription[T any] struct {
	bus *Bus[T]
	tag string
	id  uint64
	fn  func(T)
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[string][]*Subscription[T])}
}

// Subscribe registers fn for the given tag and returns its handle.
// Multiple independent listeners per tag are allowed; they are invoked
// in subscription order.
func (b *Bus[T]) Subscribe(tag string, fn func(T)) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	s := &Subscription[T]{bus: b, tag: tag, id: b.next, fn: fn}
	b.subs[tag] = append(b.subs[tag], s)
	return s
}

// Publish invokes all current listeners for the tag, synchronously, in
// subscription order. Publishing to a tag with no listeners is a no-op.
// Listeners registered or removed during delivery take effect for the
// next publish, not the current one.
func (b *Bus[T]) Publish(tag string, v T) {
	b.mu.Lock()
	listeners := make([]*Subscription[T], len(b.subs[tag]))
	copy(listeners, b.subs[tag])
	b.mu.Unlock()

	for _, s := range listeners {
		s.fn(v)
	}
}

// Unsubscribe removes the listener. It is safe to call multiple times
// and safe to call on a handle whose bus has since been reset.
func (s *Subscription[T]) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	listeners := s.bus.subs[s.tag]
	for i, candidate := range listeners {
		if candidate.id == s.id {
			s.bus.subs[s.tag] = append(listeners[:i:i], listeners[i+1:]...)
			break
		}
	}
}

// Reset removes every registration. Called at the start of each
// connection lifecycle.
func (b *Bus[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string][]*Subscription[T])
}

// Len returns the number of listeners currently registered for a tag.
func (b *Bus[T]) Len(tag string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[tag])
}
