package reactive

import "sync"

// Stream is anything that delivers values to subscribers.
type Stream[T any] interface {
	// Subscribe registers fn for every future value. Values emitted before
	// the call are not replayed.
	Subscribe(fn func(T)) *Subscription
}

// Source is the type-erased view of a value that can change. Derived values
// use it to name their upstream dependencies.
type Source interface {
	OnChange(fn func()) *Subscription
}

// Readable is a Stream with a synchronous current-value accessor.
type Readable[T any] interface {
	Stream[T]
	Source
	Get() T
}

// Subscription is returned by Subscribe and OnChange.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Unsubscribe detaches the callback. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// subscribers provides ordered subscriber management.
// It is embedded in Property, Memo and Pipe to share subscription logic.
type subscribers[T any] struct {
	mu   sync.RWMutex
	list []subscriber[T]
}

func (s *subscribers[T]) add(fn func(T)) *Subscription {
	if fn == nil {
		return newSubscription(nil)
	}

	id := nextID()
	s.mu.Lock()
	s.list = append(s.list, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	return newSubscription(func() { s.remove(id) })
}

func (s *subscribers[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.list {
		if sub.id == id {
			// Keep subscription order.
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

// notify delivers v to every subscriber.
// Uses copy-before-notify so callbacks may subscribe or unsubscribe.
func (s *subscribers[T]) notify(v T) {
	s.mu.RLock()
	subs := make([]subscriber[T], len(s.list))
	copy(subs, s.list)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

func (s *subscribers[T]) clear() {
	s.mu.Lock()
	s.list = nil
	s.mu.Unlock()
}

func (s *subscribers[T]) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}
