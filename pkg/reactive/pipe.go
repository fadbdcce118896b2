package reactive

import (
	"sync"
	"sync/atomic"
)

// Pipe is a hot broadcast stream. Values sent before a subscriber attaches
// are not replayed.
//
// Operators return pipes that own their upstream subscriptions; Dispose
// releases them.
type Pipe[T any] struct {
	subs subscribers[T]

	mu        sync.Mutex
	upstream  []*Subscription
	onDispose []func()
	disposed  atomic.Bool
}

// NewPipe creates an empty pipe.
func NewPipe[T any]() *Pipe[T] {
	return &Pipe[T]{}
}

// Send delivers v to all current subscribers in subscription order.
// Send on a disposed pipe is a no-op.
func (p *Pipe[T]) Send(v T) {
	if p.disposed.Load() {
		return
	}
	p.subs.notify(v)
}

// Subscribe registers fn for every future value.
func (p *Pipe[T]) Subscribe(fn func(T)) *Subscription {
	return p.subs.add(fn)
}

// Dispose detaches the pipe from its upstream sources and drops all
// subscribers. It is safe to call more than once.
func (p *Pipe[T]) Dispose() {
	if p.disposed.Swap(true) {
		return
	}

	p.mu.Lock()
	upstream := p.upstream
	hooks := p.onDispose
	p.upstream = nil
	p.onDispose = nil
	p.mu.Unlock()

	for _, sub := range upstream {
		sub.Unsubscribe()
	}
	for _, fn := range hooks {
		fn()
	}
	p.subs.clear()
}

// hold ties an upstream subscription to the pipe's lifetime.
func (p *Pipe[T]) hold(sub *Subscription) {
	p.mu.Lock()
	p.upstream = append(p.upstream, sub)
	p.mu.Unlock()
}

func (p *Pipe[T]) deferDispose(fn func()) {
	p.mu.Lock()
	p.onDispose = append(p.onDispose, fn)
	p.mu.Unlock()
}
