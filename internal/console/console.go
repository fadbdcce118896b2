// Package console drives a sign-up view model from line commands and
// renders its outputs to a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/signup"
)

// ErrUnknownCommand is returned by Execute for an unrecognized command.
var ErrUnknownCommand = errors.New("console: unknown command")

// ErrStopped is returned by Execute once the scheduler has shut down.
var ErrStopped = errors.New("console: scheduler stopped")

// Console binds a view model to a line-oriented terminal.
type Console struct {
	vm    *signup.ViewModel
	sched reactive.Scheduler

	outMu sync.Mutex
	out   io.Writer

	mu      sync.Mutex
	reasons string
	lastErr string

	subs []*reactive.Subscription
}

// New binds vm. Commands run on sched, which must be the view model's
// scheduler.
func New(vm *signup.ViewModel, sched reactive.Scheduler, out io.Writer) *Console {
	if sched == nil {
		sched = reactive.Immediate
	}
	c := &Console{
		vm:      vm,
		sched:   sched,
		out:     out,
		reasons: vm.CurrentReasons(),
	}

	submit := vm.Submit()
	c.subs = append(c.subs,
		vm.Reasons().Subscribe(func(text string) {
			c.mu.Lock()
			c.reasons = text
			c.mu.Unlock()
			c.println(RenderReasons(text))
		}),
		submit.Completed().Subscribe(func(struct{}) {
			c.setLastError("")
			c.println(RenderCompleted())
		}),
		submit.Errors().Subscribe(func(err error) {
			reason := describe(err)
			c.setLastError(reason)
			c.println(RenderFailed(reason))
		}),
	)
	return c
}

// Run reads commands from in until quit, EOF or ctx is cancelled.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.println(RenderHelp())

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			quit, err := c.Execute(line)
			if err != nil {
				c.println(RenderFailed(err.Error()))
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs one command on the scheduler and waits for it. It reports
// whether the command asked to quit.
func (c *Console) Execute(line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		c.println(RenderHelp())
		return false, nil
	}

	done := make(chan error, 1)
	c.sched.Schedule(func() {
		done <- c.apply(cmd, arg)
	})

	var stopped <-chan struct{}
	if d, ok := c.sched.(interface{ Done() <-chan struct{} }); ok {
		stopped = d.Done()
	}
	select {
	case err := <-done:
		return false, err
	case <-stopped:
		return true, ErrStopped
	}
}

// apply runs on the scheduler.
func (c *Console) apply(cmd, arg string) error {
	switch cmd {
	case "email":
		c.vm.Email().Set(arg)
	case "confirm":
		c.vm.EmailConfirmation().Set(arg)
	case "terms":
		switch arg {
		case "on", "yes", "true":
			c.vm.TermsAccepted().Set(true)
		case "off", "no", "false":
			c.vm.TermsAccepted().Set(false)
		default:
			return fmt.Errorf("terms takes on or off, got %q", arg)
		}
	case "submit":
		return c.vm.Submit().Run()
	case "status":
		c.println(RenderStatus(c.Snapshot()))
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return nil
}

// Snapshot captures the current form state.
func (c *Console) Snapshot() Snapshot {
	submit := c.vm.Submit()

	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Email:             c.vm.Email().Get(),
		EmailConfirmation: c.vm.EmailConfirmation().Get(),
		TermsAccepted:     c.vm.TermsAccepted().Get(),
		Reasons:           c.reasons,
		State:             submit.State().String(),
		Enabled:           submit.IsEnabled(),
		LastError:         c.lastErr,
	}
}

// Close detaches the console from the view model.
func (c *Console) Close() {
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
}

func (c *Console) setLastError(reason string) {
	c.mu.Lock()
	c.lastErr = reason
	c.mu.Unlock()
}

func (c *Console) println(s string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintln(c.out, s)
}

// describe returns the fixed reason of a coded error, or its message.
func describe(err error) string {
	var fe *fberrors.Error
	if errors.As(err, &fe) {
		return fe.Reason()
	}
	return err.Error()
}
