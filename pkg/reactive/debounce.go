package reactive

import (
	"sync"
	"time"
)

// Debounce delivers the last value of every burst from src once interval
// has elapsed without a newer value. Each new value cancels the pending
// delivery. Delivery happens on sched.
func Debounce[T any](src Stream[T], interval time.Duration, sched Scheduler) *Pipe[T] {
	if sched == nil {
		sched = Immediate
	}

	out := NewPipe[T]()
	d := &debouncer[T]{
		interval: interval,
		sched:    sched,
		out:      out,
	}
	out.hold(src.Subscribe(d.push))
	out.deferDispose(d.stop)
	return out
}

type debouncer[T any] struct {
	interval time.Duration
	sched    Scheduler
	out      *Pipe[T]

	mu      sync.Mutex
	pending Timer

	// gen identifies the latest scheduled delivery. A timer that fires
	// after being superseded sees a different gen and drops its value.
	gen uint64
}

func (d *debouncer[T]) push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen

	d.pending = d.sched.ScheduleAfter(d.interval, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		d.out.Send(v)
	})
}

func (d *debouncer[T]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}
