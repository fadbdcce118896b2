package reactive

import (
	"context"
	"time"
)

// ActionOption is an option for configuring an Action.
type ActionOption interface {
	isActionOption()
	applyAction(a any) // Uses any to avoid generics in interface
}

// actionOptionFunc is a helper for creating ActionOption implementations.
type actionOptionFunc func(a any)

func (f actionOptionFunc) isActionOption() {}
func (f actionOptionFunc) applyAction(a any) {
	f(a)
}

// =============================================================================
// Concurrency Policies
// =============================================================================

// DropWhileRunning returns an option that rejects Run while an invocation is
// in flight. This is the default concurrency policy.
//
// When Run is called while another invocation is running:
//   - The call is ignored
//   - Run returns ErrActionRunning
//   - Enabled reports false until the invocation settles
func DropWhileRunning() ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setPolicy(ConcurrencyPolicy) }); ok {
			action.setPolicy(PolicyDropWhileRunning)
		}
	})
}

// Queue returns an option that queues Run calls and executes them
// sequentially.
//
// When Run is called while another invocation is running:
//   - If the queue has room, the input is queued. Run returns nil.
//   - If the queue is full, Run returns ErrQueueFull.
//
// maxQueue specifies the maximum number of queued inputs.
func Queue(maxQueue int) ActionOption {
	if maxQueue <= 0 {
		maxQueue = 10 // Sensible default
	}
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setPolicy(ConcurrencyPolicy) }); ok {
			action.setPolicy(PolicyQueue)
		}
		if action, ok := a.(interface{ setQueueMax(int) }); ok {
			action.setQueueMax(maxQueue)
		}
	})
}

// =============================================================================
// Execution
// =============================================================================

// ActionName sets the name reported to middleware and logs.
func ActionName(name string) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setName(string) }); ok && name != "" {
			action.setName(name)
		}
	})
}

// ActionScheduler sets the context on which state transitions and
// notifications are delivered.
func ActionScheduler(s Scheduler) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setScheduler(Scheduler) }); ok && s != nil {
			action.setScheduler(s)
		}
	})
}

// ActionContext sets the parent context for every execution.
func ActionContext(ctx context.Context) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setContext(context.Context) }); ok && ctx != nil {
			action.setContext(ctx)
		}
	})
}

// ActionTimeout bounds every execution with a deadline.
func ActionTimeout(d time.Duration) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setTimeout(time.Duration) }); ok {
			action.setTimeout(d)
		}
	})
}

// ActionMiddleware wraps every execution. The first middleware is the
// outermost.
func ActionMiddleware(mw ...Middleware) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ addMiddleware(...Middleware) }); ok {
			action.addMiddleware(mw...)
		}
	})
}

// =============================================================================
// Lifecycle Callbacks
// =============================================================================

// OnActionStart returns an option that sets a callback for when an
// invocation starts.
func OnActionStart(fn func()) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setOnStart(func()) }); ok {
			action.setOnStart(fn)
		}
	})
}

// OnActionSuccess returns an option that sets a callback for successful
// completion. The callback receives the result as any; type assert as
// needed.
func OnActionSuccess(fn func(any)) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setOnSuccessAny(func(any)) }); ok {
			action.setOnSuccessAny(fn)
		}
	})
}

// OnActionError returns an option that sets a callback for failures.
func OnActionError(fn func(error)) ActionOption {
	return actionOptionFunc(func(a any) {
		if action, ok := a.(interface{ setOnError(func(error)) }); ok {
			action.setOnError(fn)
		}
	})
}
