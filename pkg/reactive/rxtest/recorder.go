package rxtest

import (
	"sync"
	"time"

	"github.com/vango-dev/formbind/pkg/reactive"
)

// Recorder collects the values emitted by a stream.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
	times  []time.Duration
	clock  func() time.Duration
	sub    *reactive.Subscription

	changed chan struct{}
}

// Record subscribes to s and records every value.
func Record[T any](s reactive.Stream[T]) *Recorder[T] {
	return record(s, nil)
}

// RecordAt records every value along with the virtual time it arrived at.
func RecordAt[T any](s reactive.Stream[T], sched *Scheduler) *Recorder[T] {
	return record(s, sched.Now)
}

func record[T any](s reactive.Stream[T], clock func() time.Duration) *Recorder[T] {
	r := &Recorder[T]{
		clock:   clock,
		changed: make(chan struct{}, 1),
	}
	r.sub = s.Subscribe(r.push)
	return r
}

func (r *Recorder[T]) push(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	if r.clock != nil {
		r.times = append(r.times, r.clock())
	}
	r.mu.Unlock()

	select {
	case r.changed <- struct{}{}:
	default:
	}
}

// Values returns a copy of everything recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Times returns the virtual arrival times. Empty unless created by RecordAt.
func (r *Recorder[T]) Times() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.times))
	copy(out, r.times)
	return out
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent value.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return *new(T), false
	}
	return r.values[len(r.values)-1], true
}

// WaitFor blocks until at least n values were recorded or timeout elapses.
func (r *Recorder[T]) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		if r.Len() >= n {
			return true
		}
		select {
		case <-r.changed:
		case <-deadline.C:
			return r.Len() >= n
		}
	}
}

// Stop unsubscribes the recorder.
func (r *Recorder[T]) Stop() {
	r.sub.Unsubscribe()
}
