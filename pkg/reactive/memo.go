package reactive

import "sync"

// Memo is a derived value computed from explicit sources.
//
// The computation runs once at construction and again whenever any source
// changes. Subscribers are notified only when the computed value differs
// from the previous one.
type Memo[T any] struct {
	id uint64

	// compute is the function that computes the memo's value.
	compute func() T

	// value is the cached computed value.
	value   T
	valueMu sync.RWMutex

	// computeMu serializes recomputation and the notification that follows,
	// so subscribers observe values in the order they were computed.
	computeMu sync.Mutex

	// equal is the equality function for determining value changes.
	equal func(T, T) bool

	sources []*Subscription
	subs    subscribers[T]
}

// NewMemo creates a memo over the given sources.
func NewMemo[T any](compute func() T, sources ...Source) *Memo[T] {
	m := &Memo[T]{
		id:      nextID(),
		compute: compute,
	}
	m.value = compute()

	for _, src := range sources {
		if src == nil {
			continue
		}
		m.sources = append(m.sources, src.OnChange(m.recompute))
	}
	return m
}

// Get returns the cached value.
func (m *Memo[T]) Get() T {
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Subscribe registers fn for every future change of the computed value.
func (m *Memo[T]) Subscribe(fn func(T)) *Subscription {
	return m.subs.add(fn)
}

// OnChange registers fn for every future change of the computed value.
func (m *Memo[T]) OnChange(fn func()) *Subscription {
	if fn == nil {
		return newSubscription(nil)
	}
	return m.subs.add(func(T) { fn() })
}

// WithEquals configures the memo with a custom equality function.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.id
}

// Dispose detaches the memo from its sources. The cached value stays
// readable.
func (m *Memo[T]) Dispose() {
	m.computeMu.Lock()
	sources := m.sources
	m.sources = nil
	m.computeMu.Unlock()

	for _, sub := range sources {
		sub.Unsubscribe()
	}
	m.subs.clear()
}

// recompute runs the computation and notifies subscribers on change.
func (m *Memo[T]) recompute() {
	m.computeMu.Lock()
	defer m.computeMu.Unlock()

	newValue := m.compute()

	m.valueMu.Lock()
	changed := !m.equals(m.value, newValue)
	if changed {
		m.value = newValue
	}
	m.valueMu.Unlock()

	if changed {
		m.subs.notify(newValue)
	}
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}

var _ Readable[int] = (*Memo[int])(nil)
