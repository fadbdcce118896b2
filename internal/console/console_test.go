package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/signup"
	"github.com/vango-dev/formbind/pkg/userservice"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newConsole(t *testing.T, svc userservice.Service, opts ...signup.Option) (*Console, *signup.ViewModel, *syncBuffer) {
	t.Helper()

	loop := reactive.NewLoop()
	t.Cleanup(loop.Close)

	opts = append([]signup.Option{
		signup.WithScheduler(loop),
		signup.WithDebounce(5 * time.Millisecond),
		signup.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	vm := signup.New(svc, opts...)
	t.Cleanup(vm.Close)

	out := &syncBuffer{}
	c := New(vm, loop, out)
	t.Cleanup(c.Close)
	return c, vm, out
}

func run(t *testing.T, c *Console, script string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx, strings.NewReader(script)))
}

func TestRunSubmitsEmail(t *testing.T) {
	stub := userservice.NewStub()
	c, vm, out := newConsole(t, stub)

	var mu sync.Mutex
	var requested []string
	sub := vm.Requests().Subscribe(func(name string) {
		mu.Lock()
		requested = append(requested, name)
		mu.Unlock()
	})
	defer sub.Unsubscribe()

	run(t, c, "email a@gmail.com\nsubmit\n")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "submitted")
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a"}, requested)
	assert.Equal(t, "a@gmail.com", vm.Email().Get())
}

func TestRunReportsTakenUsername(t *testing.T) {
	c, _, out := newConsole(t, userservice.NewStub(userservice.WithTaken("a")))

	run(t, c, "email a@gmail.com\nsubmit\n")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "The username has been taken.")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "The username has been taken.", c.Snapshot().LastError)
}

func TestSubmitWhileEmptyIsRejected(t *testing.T) {
	c, _, _ := newConsole(t, userservice.NewStub())

	_, err := c.Execute("submit")
	assert.ErrorIs(t, err, reactive.ErrActionDisabled)
}

func TestShippedModeReasonsStayEmpty(t *testing.T) {
	c, _, out := newConsole(t, userservice.NewStub())

	run(t, c, "email bob\nconfirm alice\n")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "no validation errors")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "", c.Snapshot().Reasons)
}

func TestStrictModeRendersReasons(t *testing.T) {
	c, _, out := newConsole(t, userservice.NewStub(), signup.WithStrictValidation(true))

	run(t, c, "email bob\nconfirm alice\n")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "The e-mail addresses do not match.")
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "The address must end with `@gmail.com`.")

	require.Eventually(t, func() bool {
		return strings.Contains(c.Snapshot().Reasons, "\n")
	}, time.Second, 5*time.Millisecond)
}

func TestTermsCommand(t *testing.T) {
	c, vm, _ := newConsole(t, userservice.NewStub())

	_, err := c.Execute("terms on")
	require.NoError(t, err)
	assert.True(t, vm.TermsAccepted().Get())

	_, err = c.Execute("terms off")
	require.NoError(t, err)
	assert.False(t, vm.TermsAccepted().Get())

	_, err = c.Execute("terms maybe")
	assert.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	c, _, out := newConsole(t, userservice.NewStub())

	_, err := c.Execute("frobnicate")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	run(t, c, "frobnicate\n")
	assert.Contains(t, out.String(), "unknown command")
}

func TestQuitStopsReading(t *testing.T) {
	c, vm, _ := newConsole(t, userservice.NewStub())

	run(t, c, "quit\nemail late@gmail.com\n")
	assert.Equal(t, "", vm.Email().Get())
}

func TestStatusRendersForm(t *testing.T) {
	c, _, out := newConsole(t, userservice.NewStub())

	run(t, c, "email a@gmail.com\nterms on\nstatus\n")

	s := out.String()
	assert.Contains(t, s, "Sign up")
	assert.Contains(t, s, "a@gmail.com")
	assert.Contains(t, s, "[x] accepted")
	assert.Contains(t, s, "[ Submit ]")

	snap := c.Snapshot()
	assert.True(t, snap.Enabled)
	assert.Equal(t, "idle", snap.State)
}

func TestExecuteAfterLoopClosed(t *testing.T) {
	loop := reactive.NewLoop()
	vm := signup.New(userservice.NewStub(), signup.WithScheduler(loop),
		signup.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer vm.Close()

	c := New(vm, loop, io.Discard)
	defer c.Close()
	loop.Close()

	quit, err := c.Execute("email a@gmail.com")
	assert.True(t, quit)
	assert.ErrorIs(t, err, ErrStopped)
}

func TestRenderReasons(t *testing.T) {
	assert.Contains(t, RenderReasons(""), "no validation errors")
	got := RenderReasons("one\ntwo")
	assert.Contains(t, got, "one; two")
}
