// Package reactive provides the observable primitives behind formbind's
// view models.
//
// Unlike a tracking runtime, every derived value here names its upstream
// sources explicitly when it is constructed. The graph is wired once and
// then only values flow through it.
//
// # Core Types
//
// Property[T] is a mutable value holder:
//
//	email := reactive.NewProperty("")
//	email.Subscribe(func(v string) { fmt.Println("email:", v) })
//	email.Set("a@gmail.com") // notifies synchronously, in subscription order
//	current := email.Get()
//
// Memo[T] is a derived value that recomputes when a source changes:
//
//	empty := reactive.NewMemo(func() bool { return email.Get() == "" }, email)
//
// Pipe[T] is a hot broadcast stream. Operators (Map, Filter, CombineLatest2,
// Debounce) return pipes:
//
//	reasons := reactive.Map(
//	    reactive.Debounce(reactive.CombineLatest2(email, confirm), 100*time.Millisecond, loop),
//	    render,
//	)
//
// # Actions
//
// Action[I, R] is a gated asynchronous operation bound to an input value. It
// is enabled while its guard accepts the input and nothing is in flight:
//
//	submit := reactive.NewAction(email, func(s string) bool { return s != "" },
//	    func(ctx context.Context, s string) (struct{}, error) { ... },
//	    reactive.ActionName("submit"),
//	)
//	if err := submit.Run(); err != nil { ... }
//
// # Scheduling
//
// Debounced delivery and action state transitions run on a Scheduler. Loop is
// the single serial "main" context; Immediate runs work inline. The rxtest
// subpackage provides a virtual-time scheduler for tests.
//
// # Thread Safety
//
// All primitives may be used from multiple goroutines. Notification order is
// only guaranteed for writes issued from a single goroutine, which is what a
// Loop provides.
package reactive
