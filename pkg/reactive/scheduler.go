package reactive

import "time"

// Scheduler is an execution context for deferred work.
type Scheduler interface {
	// Schedule runs fn on the scheduler's context.
	Schedule(fn func())

	// ScheduleAfter runs fn on the scheduler's context once d has elapsed.
	// The returned Timer cancels the delivery if it has not happened yet.
	ScheduleAfter(d time.Duration, fn func()) Timer
}

// Timer is a pending delayed delivery.
type Timer interface {
	// Stop cancels the delivery. It returns false if the delivery already
	// ran or was already stopped.
	Stop() bool
}

// Immediate runs Schedule inline on the calling goroutine and delays
// ScheduleAfter with time.AfterFunc.
var Immediate Scheduler = immediateScheduler{}

type immediateScheduler struct{}

func (immediateScheduler) Schedule(fn func()) {
	fn()
}

func (immediateScheduler) ScheduleAfter(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
