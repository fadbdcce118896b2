package reactive

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a single serial execution context, the "main thread" of a view
// model. Scheduled functions run one at a time, in FIFO order, on one
// goroutine owned by the loop.
type Loop struct {
	logger *slog.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report recovered panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop starts a loop goroutine.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		logger: slog.Default(),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.run()
	return l
}

// Schedule enqueues fn. Work scheduled after Close is dropped.
func (l *Loop) Schedule(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Debug("reactive: work scheduled on closed loop dropped")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// ScheduleAfter enqueues fn once d has elapsed.
func (l *Loop) ScheduleAfter(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Schedule(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

// Close stops accepting work, runs what is already queued and waits for the
// loop goroutine to exit. Close must not be called from the loop itself.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.done
}

// Done is closed when the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.mu.Unlock()
			<-l.wake
			l.mu.Lock()
		}
		if len(l.queue) == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("reactive: panic in scheduled work",
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.timer.Stop()
	return true
}

var _ Scheduler = (*Loop)(nil)
