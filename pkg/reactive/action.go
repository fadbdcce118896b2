package reactive

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ActionState represents the current state of an Action.
type ActionState int

const (
	// ActionIdle is the initial state before any Run call.
	ActionIdle ActionState = iota

	// ActionExecuting indicates an invocation is in flight.
	ActionExecuting

	// ActionCompleted indicates the last invocation succeeded.
	ActionCompleted

	// ActionFailed indicates the last invocation failed. Err holds the cause.
	ActionFailed
)

// String returns a human-readable name for the action state.
func (s ActionState) String() string {
	switch s {
	case ActionIdle:
		return "idle"
	case ActionExecuting:
		return "executing"
	case ActionCompleted:
		return "completed"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConcurrencyPolicy defines how an Action handles Run while executing.
type ConcurrencyPolicy int

const (
	// PolicyDropWhileRunning rejects Run calls while an invocation is in
	// flight. This is the default policy.
	PolicyDropWhileRunning ConcurrencyPolicy = iota

	// PolicyQueue buffers Run calls and executes them sequentially.
	PolicyQueue
)

// Middleware wraps every action execution. name is the action's name.
type Middleware func(ctx context.Context, name string, next func(ctx context.Context) error) error

// Action is a gated asynchronous operation bound to an input value.
//
// The action is enabled while its guard accepts the input's current value
// and no invocation is in flight. Run reads the input, executes the work
// off the calling goroutine and applies every state transition on the
// action's scheduler. An invocation cannot be cancelled once started.
type Action[I any, R any] struct {
	// The async work function
	do func(ctx context.Context, in I) (R, error)

	input     Readable[I]
	enabledIf func(I) bool

	state   *Property[ActionState]
	result  *Property[R]
	err     *Property[error]
	enabled *Memo[bool]

	// One-shot notifications per invocation
	values    *Pipe[R]
	errs      *Pipe[error]
	completed *Pipe[struct{}]

	sched      Scheduler
	baseCtx    context.Context
	timeout    time.Duration
	middleware []Middleware

	policy   ConcurrencyPolicy
	queueMax int

	// mu guards running and queue. running is authoritative for the
	// concurrency guard; state only mirrors it for observers.
	mu      sync.Mutex
	running bool
	queue   []I

	// Options
	name      string
	onStart   func()
	onSuccess func(R)
	onError   func(error)
}

// NewAction creates an action bound to input.
//
// enabledIf decides whether an input value is acceptable; nil accepts every
// value.
//
// Options:
//   - DropWhileRunning() - Reject Run while executing (default)
//   - Queue(max) - Buffer up to max inputs, execute sequentially
//   - ActionName(name) - Name used by middleware and logs
//   - ActionScheduler(s) - Context for state transitions (default Immediate)
//   - ActionMiddleware(mw...) - Wrap every execution
//   - ActionTimeout(d) - Deadline for each execution
//   - ActionContext(ctx) - Parent context for executions
//   - OnActionStart(fn), OnActionSuccess(fn), OnActionError(fn)
//
// Example:
//
//	submit := reactive.NewAction(email, func(s string) bool { return s != "" },
//	    func(ctx context.Context, s string) (struct{}, error) {
//	        return struct{}{}, api.Register(ctx, s)
//	    },
//	    reactive.ActionName("submit"),
//	)
func NewAction[I any, R any](
	input Readable[I],
	enabledIf func(I) bool,
	do func(ctx context.Context, in I) (R, error),
	opts ...ActionOption,
) *Action[I, R] {
	a := &Action[I, R]{
		do:        do,
		input:     input,
		enabledIf: enabledIf,
		state:     NewProperty(ActionIdle),
		result:    NewProperty(*new(R)),
		err:       NewProperty[error](nil),
		values:    NewPipe[R](),
		errs:      NewPipe[error](),
		completed: NewPipe[struct{}](),
		sched:     Immediate,
		baseCtx:   context.Background(),
		policy:    PolicyDropWhileRunning,
		name:      "action",
	}

	for _, opt := range opts {
		opt.applyAction(a)
	}

	a.enabled = NewMemo(a.computeEnabled, input, a.state)
	return a
}

func (a *Action[I, R]) computeEnabled() bool {
	if !a.accepts(a.input.Get()) {
		return false
	}
	if a.policy == PolicyQueue {
		return true
	}
	return a.state.Get() != ActionExecuting
}

func (a *Action[I, R]) accepts(in I) bool {
	return a.enabledIf == nil || a.enabledIf(in)
}

// Run starts an invocation with the input's current value.
//
// Returns ErrActionDisabled if the guard rejects the input. While an
// invocation is in flight, returns ErrActionRunning (DropWhileRunning) or
// queues the input (Queue), returning ErrQueueFull when the buffer is full.
func (a *Action[I, R]) Run() error {
	in := a.input.Get()
	if !a.accepts(in) {
		return ErrActionDisabled
	}

	a.mu.Lock()
	if a.running {
		if a.policy != PolicyQueue {
			a.mu.Unlock()
			return ErrActionRunning
		}
		if len(a.queue) >= a.queueMax {
			a.mu.Unlock()
			return ErrQueueFull
		}
		a.queue = append(a.queue, in)
		a.mu.Unlock()
		return nil
	}
	a.running = true
	a.mu.Unlock()

	a.start(in)
	return nil
}

func (a *Action[I, R]) start(in I) {
	a.sched.Schedule(func() {
		a.err.Set(nil)
		a.state.Set(ActionExecuting)
		if a.onStart != nil {
			a.onStart()
		}
	})

	// Execute work off the caller's goroutine
	go a.execute(in)
}

func (a *Action[I, R]) execute(in I) {
	ctx := a.baseCtx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var result R
	work := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("reactive: action %s panicked: %v", a.name, r)
			}
		}()
		result, err = a.do(ctx, in)
		return err
	}

	err := a.chain(work)(ctx)

	a.sched.Schedule(func() {
		a.finish(result, err)
	})
}

// chain wraps work with the configured middleware, first option outermost.
func (a *Action[I, R]) chain(work func(context.Context) error) func(context.Context) error {
	next := work
	for i := len(a.middleware) - 1; i >= 0; i-- {
		mw := a.middleware[i]
		inner := next
		next = func(ctx context.Context) error {
			return mw(ctx, a.name, inner)
		}
	}
	return next
}

// finish publishes the outcome. The terminal state is applied before the
// running flag is released, so a new Run can never be overwritten by it.
func (a *Action[I, R]) finish(result R, err error) {
	if err != nil {
		a.err.Set(err)
		a.state.Set(ActionFailed)
	} else {
		a.result.Set(result)
		a.state.Set(ActionCompleted)
	}

	a.mu.Lock()
	var next I
	hasNext := len(a.queue) > 0
	if hasNext {
		next = a.queue[0]
		a.queue = a.queue[1:]
	} else {
		a.running = false
	}
	a.mu.Unlock()

	if err != nil {
		if a.onError != nil {
			a.onError(err)
		}
		a.errs.Send(err)
	} else {
		if a.onSuccess != nil {
			a.onSuccess(result)
		}
		a.values.Send(result)
		a.completed.Send(struct{}{})
	}

	if hasNext {
		a.start(next)
	}
}

// State returns the current ActionState.
func (a *Action[I, R]) State() ActionState {
	return a.state.Get()
}

// StateProperty exposes the state for observers.
func (a *Action[I, R]) StateProperty() Readable[ActionState] {
	return a.state
}

// Enabled reports whether Run would currently be accepted.
func (a *Action[I, R]) Enabled() Readable[bool] {
	return a.enabled
}

// IsEnabled reports whether Run would currently be accepted. Unlike
// Enabled, it also accounts for an invocation whose terminal state is
// published but whose release is still pending.
func (a *Action[I, R]) IsEnabled() bool {
	if !a.enabled.Get() {
		return false
	}
	if a.policy == PolicyQueue {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.running
}

// IsExecuting returns true while an invocation is in flight.
func (a *Action[I, R]) IsExecuting() bool {
	return a.state.Get() == ActionExecuting
}

// Result returns the last successful result and true, or the zero value and
// false if the last invocation did not succeed.
func (a *Action[I, R]) Result() (R, bool) {
	if a.state.Get() == ActionCompleted {
		return a.result.Get(), true
	}
	return *new(R), false
}

// Err returns the error of the last failed invocation, or nil.
func (a *Action[I, R]) Err() error {
	return a.err.Get()
}

// Values emits the result of every successful invocation.
func (a *Action[I, R]) Values() Stream[R] {
	return a.values
}

// Errors emits the error of every failed invocation.
func (a *Action[I, R]) Errors() Stream[error] {
	return a.errs
}

// Completed emits once per successful invocation.
func (a *Action[I, R]) Completed() Stream[struct{}] {
	return a.completed
}

// Name returns the action's name.
func (a *Action[I, R]) Name() string {
	return a.name
}

// Reset returns a settled action to ActionIdle and clears its result and
// error. It has no effect while an invocation is in flight.
func (a *Action[I, R]) Reset() {
	a.mu.Lock()
	running := a.running
	a.mu.Unlock()
	if running {
		return
	}

	a.result.Set(*new(R))
	a.err.Set(nil)
	a.state.Set(ActionIdle)
}

// Dispose detaches the action from its input and drops all subscribers.
func (a *Action[I, R]) Dispose() {
	a.enabled.Dispose()
	a.values.Dispose()
	a.errs.Dispose()
	a.completed.Dispose()
}

// =============================================================================
// Option setters (called by ActionOption implementations)
// =============================================================================

func (a *Action[I, R]) setPolicy(p ConcurrencyPolicy) {
	a.policy = p
}

func (a *Action[I, R]) setQueueMax(max int) {
	a.queueMax = max
}

func (a *Action[I, R]) setName(name string) {
	a.name = name
}

func (a *Action[I, R]) setScheduler(s Scheduler) {
	a.sched = s
}

func (a *Action[I, R]) setContext(ctx context.Context) {
	a.baseCtx = ctx
}

func (a *Action[I, R]) setTimeout(d time.Duration) {
	a.timeout = d
}

func (a *Action[I, R]) addMiddleware(mw ...Middleware) {
	a.middleware = append(a.middleware, mw...)
}

func (a *Action[I, R]) setOnStart(fn func()) {
	a.onStart = fn
}

func (a *Action[I, R]) setOnSuccessAny(fn func(any)) {
	// Wrap the any callback to call with the typed result
	a.onSuccess = func(r R) {
		fn(r)
	}
}

func (a *Action[I, R]) setOnError(fn func(error)) {
	a.onError = fn
}
