// Package rxtest provides testing helpers for reactive graphs.
//
// Scheduler is a virtual-time reactive.Scheduler: nothing runs until the
// test advances the clock, which makes debounce windows deterministic.
//
//	sched := rxtest.NewScheduler()
//	out := reactive.Debounce(src, 100*time.Millisecond, sched)
//	rec := rxtest.RecordAt(out, sched)
//
//	src.Set("a")
//	sched.Advance(99 * time.Millisecond) // nothing delivered yet
//	sched.Advance(time.Millisecond)      // "a" delivered at t=100ms
//
// Recorder collects emissions from any stream and can wait for values that
// arrive from other goroutines:
//
//	rec := rxtest.Record(action.Errors())
//	require.True(t, rec.WaitFor(1, time.Second))
package rxtest
