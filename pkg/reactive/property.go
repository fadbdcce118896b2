package reactive

import "sync"

// Property is a mutable value holder that notifies subscribers on every
// write.
type Property[T any] struct {
	id uint64

	// value is the current value.
	value T

	// mu protects value.
	mu sync.RWMutex

	subs subscribers[T]
}

// NewProperty creates a property holding initial.
func NewProperty[T any](initial T) *Property[T] {
	return &Property[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set overwrites the value and synchronously notifies all subscribers, in
// subscription order. Writing an equal value still notifies.
//
// Setting the same property from inside one of its own callbacks is not
// supported.
func (p *Property[T]) Set(value T) {
	p.mu.Lock()
	p.value = value
	p.mu.Unlock()

	p.subs.notify(value)
}

// Update atomically reads and replaces the value, then notifies.
func (p *Property[T]) Update(fn func(T) T) {
	p.mu.Lock()
	newValue := fn(p.value)
	p.value = newValue
	p.mu.Unlock()

	p.subs.notify(newValue)
}

// Subscribe registers fn for every future write.
func (p *Property[T]) Subscribe(fn func(T)) *Subscription {
	return p.subs.add(fn)
}

// OnChange registers fn for every future write, discarding the value.
func (p *Property[T]) OnChange(fn func()) *Subscription {
	if fn == nil {
		return newSubscription(nil)
	}
	return p.subs.add(func(T) { fn() })
}

// ID returns the unique identifier for this property.
func (p *Property[T]) ID() uint64 {
	return p.id
}

var _ Readable[int] = (*Property[int])(nil)
