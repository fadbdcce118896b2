package reactive

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nonEmpty(s string) bool { return s != "" }

// waitState polls until the action reaches want.
func waitState[I, R any](t *testing.T, a *Action[I, R], want ActionState) {
	t.Helper()
	require.Eventually(t, func() bool { return a.State() == want },
		time.Second, time.Millisecond, "action never reached %s (now %s)", want, a.State())
}

func TestActionStateStrings(t *testing.T) {
	tests := []struct {
		state ActionState
		want  string
	}{
		{ActionIdle, "idle"},
		{ActionExecuting, "executing"},
		{ActionCompleted, "completed"},
		{ActionFailed, "failed"},
		{ActionState(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestActionEnabledFollowsInput(t *testing.T) {
	input := NewProperty("")
	action := NewAction(input, nonEmpty, func(ctx context.Context, s string) (string, error) {
		return s, nil
	})

	assert.False(t, action.IsEnabled())
	assert.ErrorIs(t, action.Run(), ErrActionDisabled)
	assert.Equal(t, ActionIdle, action.State())

	var changes []bool
	action.Enabled().Subscribe(func(v bool) { changes = append(changes, v) })

	input.Set("a")
	input.Set("ab")
	input.Set("")

	assert.Equal(t, []bool{true, false}, changes)
}

func TestActionSuccess(t *testing.T) {
	input := NewProperty("payload")

	var started atomic.Bool
	var succeeded atomic.Value
	action := NewAction(input, nonEmpty,
		func(ctx context.Context, s string) (string, error) {
			return "result: " + s, nil
		},
		ActionName("echo"),
		OnActionStart(func() { started.Store(true) }),
		OnActionSuccess(func(r any) { succeeded.Store(r) }),
	)

	values := make(chan string, 1)
	completed := make(chan struct{}, 1)
	action.Values().Subscribe(func(v string) { values <- v })
	action.Completed().Subscribe(func(struct{}) { completed <- struct{}{} })

	require.NoError(t, action.Run())

	select {
	case v := <-values:
		assert.Equal(t, "result: payload", v)
	case <-time.After(time.Second):
		t.Fatal("no value delivered")
	}
	<-completed

	waitState(t, action, ActionCompleted)
	result, ok := action.Result()
	assert.True(t, ok)
	assert.Equal(t, "result: payload", result)
	assert.NoError(t, action.Err())
	assert.True(t, started.Load())
	assert.Equal(t, "result: payload", succeeded.Load())
	assert.Equal(t, "echo", action.Name())
}

func TestActionFailure(t *testing.T) {
	boom := errors.New("boom")
	input := NewProperty(1)

	var onErr atomic.Value
	action := NewAction(input, nil,
		func(ctx context.Context, n int) (int, error) { return 0, boom },
		OnActionError(func(err error) { onErr.Store(err) }),
	)

	errs := make(chan error, 1)
	action.Errors().Subscribe(func(err error) { errs <- err })

	require.NoError(t, action.Run())
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("no error delivered")
	}

	waitState(t, action, ActionFailed)
	assert.ErrorIs(t, action.Err(), boom)
	_, ok := action.Result()
	assert.False(t, ok)
	assert.Equal(t, boom, onErr.Load())
}

func TestActionDropWhileRunning(t *testing.T) {
	input := NewProperty("x")
	release := make(chan struct{})
	var calls atomic.Int32

	action := NewAction(input, nonEmpty, func(ctx context.Context, s string) (struct{}, error) {
		calls.Add(1)
		<-release
		return struct{}{}, nil
	})

	require.NoError(t, action.Run())
	assert.Equal(t, ActionExecuting, action.State())
	assert.False(t, action.IsEnabled())
	assert.True(t, action.IsExecuting())

	assert.ErrorIs(t, action.Run(), ErrActionRunning)
	assert.ErrorIs(t, action.Run(), ErrActionRunning)

	close(release)
	waitState(t, action, ActionCompleted)
	require.Eventually(t, action.IsEnabled, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	// Settled actions accept a new invocation.
	require.NoError(t, action.Run())
	waitState(t, action, ActionCompleted)
	assert.Equal(t, int32(2), calls.Load())
}

func TestActionQueue(t *testing.T) {
	input := NewProperty(0)
	release := make(chan struct{})

	var mu sync.Mutex
	var seen []int
	action := NewAction(input, nil, func(ctx context.Context, n int) (int, error) {
		<-release
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
		return n, nil
	}, Queue(2))

	done := make(chan int, 3)
	action.Values().Subscribe(func(n int) { done <- n })

	require.NoError(t, action.Run())
	input.Set(1)
	require.NoError(t, action.Run())
	input.Set(2)
	require.NoError(t, action.Run())
	input.Set(3)
	assert.ErrorIs(t, action.Run(), ErrQueueFull)
	assert.True(t, action.IsEnabled())

	close(release)
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("queued invocation did not run")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestActionMiddlewareOrder(t *testing.T) {
	input := NewProperty("in")

	var mu sync.Mutex
	var trace []string
	record := func(tag string) Middleware {
		return func(ctx context.Context, name string, next func(context.Context) error) error {
			mu.Lock()
			trace = append(trace, tag+":"+name)
			mu.Unlock()
			return next(ctx)
		}
	}

	action := NewAction(input, nil, func(ctx context.Context, s string) (string, error) {
		mu.Lock()
		trace = append(trace, "work")
		mu.Unlock()
		return s, nil
	}, ActionName("submit"), ActionMiddleware(record("outer"), record("inner")))

	require.NoError(t, action.Run())
	waitState(t, action, ActionCompleted)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"outer:submit", "inner:submit", "work"}, trace)
}

func TestActionTimeout(t *testing.T) {
	input := NewProperty(0)
	action := NewAction(input, nil, func(ctx context.Context, n int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, ActionTimeout(5*time.Millisecond))

	require.NoError(t, action.Run())
	waitState(t, action, ActionFailed)
	assert.ErrorIs(t, action.Err(), context.DeadlineExceeded)
}

func TestActionContextValues(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	input := NewProperty(0)
	got := make(chan any, 1)
	action := NewAction(input, nil, func(ctx context.Context, n int) (int, error) {
		got <- ctx.Value(key{})
		return n, nil
	}, ActionContext(ctx))

	require.NoError(t, action.Run())
	assert.Equal(t, "v", <-got)
}

func TestActionRecoversPanic(t *testing.T) {
	input := NewProperty(0)
	action := NewAction(input, nil, func(ctx context.Context, n int) (int, error) {
		panic("kaboom")
	}, ActionName("fragile"))

	require.NoError(t, action.Run())
	waitState(t, action, ActionFailed)
	assert.Contains(t, action.Err().Error(), "kaboom")
	require.Eventually(t, action.IsEnabled, time.Second, time.Millisecond)
}

func TestActionOnLoop(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	input := NewProperty("x")
	action := NewAction(input, nonEmpty, func(ctx context.Context, s string) (string, error) {
		return s, nil
	}, ActionScheduler(loop))

	var mu sync.Mutex
	var states []ActionState
	action.StateProperty().Subscribe(func(s ActionState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	loop.Schedule(func() { assert.NoError(t, action.Run()) })
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []ActionState{ActionExecuting, ActionCompleted}, states)
}

func TestActionReset(t *testing.T) {
	input := NewProperty(1)
	action := NewAction(input, nil, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	require.NoError(t, action.Run())
	waitState(t, action, ActionCompleted)
	require.Eventually(t, action.IsEnabled, time.Second, time.Millisecond)

	action.Reset()
	assert.Equal(t, ActionIdle, action.State())
	_, ok := action.Result()
	assert.False(t, ok)
}

func TestActionDispose(t *testing.T) {
	input := NewProperty("")
	action := NewAction(input, nonEmpty, func(ctx context.Context, s string) (string, error) {
		return s, nil
	})
	action.Dispose()

	input.Set("now non-empty")
	assert.False(t, action.IsEnabled())
}

func TestActionTerminalStateBeforeRelease(t *testing.T) {
	for _, fail := range []bool{false, true} {
		input := NewProperty(0)
		action := NewAction(input, nil, func(ctx context.Context, n int) (int, error) {
			if fail {
				return 0, errors.New("nope")
			}
			return n, nil
		})

		observed := make(chan bool, 1)
		action.StateProperty().Subscribe(func(s ActionState) {
			if s != ActionCompleted && s != ActionFailed {
				return
			}
			action.mu.Lock()
			observed <- action.running
			action.mu.Unlock()
		})

		require.NoError(t, action.Run())
		select {
		case running := <-observed:
			assert.True(t, running, "terminal state published after release (fail=%v)", fail)
		case <-time.After(time.Second):
			t.Fatal("action never settled")
		}
		require.Eventually(t, action.IsEnabled, time.Second, time.Millisecond)
		assert.NoError(t, action.Run())
	}
}

func TestActionIsEnabledWhileReleasePending(t *testing.T) {
	input := NewProperty("x")
	action := NewAction(input, nonEmpty, func(ctx context.Context, s string) (string, error) {
		return s, nil
	})

	action.mu.Lock()
	action.running = true
	action.mu.Unlock()

	assert.True(t, action.Enabled().Get())
	assert.False(t, action.IsEnabled())
	assert.ErrorIs(t, action.Run(), ErrActionRunning)
}
