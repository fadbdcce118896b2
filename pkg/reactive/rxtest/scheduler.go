package rxtest

import (
	"sync"
	"time"

	"github.com/vango-dev/formbind/pkg/reactive"
)

// Scheduler is a virtual-time scheduler. Work runs only from Advance, Run
// or Flush, on the calling goroutine.
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	items []*item
}

type item struct {
	owner     *Scheduler
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// NewScheduler creates a scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Schedule queues fn at the current virtual time.
func (s *Scheduler) Schedule(fn func()) {
	s.ScheduleAfter(0, fn)
}

// ScheduleAfter queues fn at now+d.
func (s *Scheduler) ScheduleAfter(d time.Duration, fn func()) reactive.Timer {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	it := &item{owner: s, at: s.now + d, seq: s.seq, fn: fn}
	s.items = append(s.items, it)
	return it
}

// Stop cancels the item if it has not run yet.
func (it *item) Stop() bool {
	s := it.owner
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, other := range s.items {
		if other == it {
			s.items = append(s.items[:i], s.items[i+1:]...)
			it.cancelled = true
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, running every item due on the way
// in time order. Items scheduled while advancing run too if they fall due
// before the target time.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	s.AdvanceTo(target)
}

// AdvanceTo moves the clock to the absolute virtual time t.
func (s *Scheduler) AdvanceTo(t time.Duration) {
	for {
		s.mu.Lock()
		next := s.popDue(t)
		if next == nil {
			if t > s.now {
				s.now = t
			}
			s.mu.Unlock()
			return
		}
		if next.at > s.now {
			s.now = next.at
		}
		s.mu.Unlock()

		next.fn()
	}
}

// Flush runs everything due at the current time.
func (s *Scheduler) Flush() {
	s.Advance(0)
}

// Run advances until no work is left.
func (s *Scheduler) Run() {
	for {
		s.mu.Lock()
		if len(s.items) == 0 {
			s.mu.Unlock()
			return
		}
		last := s.now
		for _, it := range s.items {
			if it.at > last {
				last = it.at
			}
		}
		s.mu.Unlock()

		s.AdvanceTo(last)
	}
}

// Pending returns the number of queued items.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// popDue removes and returns the earliest item due at or before t.
// Ties run in scheduling order. Caller must hold s.mu.
func (s *Scheduler) popDue(t time.Duration) *item {
	idx := -1
	for i, it := range s.items {
		if it.at > t {
			continue
		}
		if idx < 0 || it.at < s.items[idx].at || (it.at == s.items[idx].at && it.seq < s.items[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	it := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return it
}

var _ reactive.Scheduler = (*Scheduler)(nil)
