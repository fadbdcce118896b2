package reactive

import "errors"

// ErrActionDisabled is returned by Run when the action's guard rejects the
// current input value.
var ErrActionDisabled = errors.New("reactive: action disabled")

// ErrActionRunning is returned by Run when an invocation is already in
// flight and the action uses the DropWhileRunning policy.
//
// Callers can safely ignore it; it is the expected outcome of rapid
// repeated presses.
var ErrActionRunning = errors.New("reactive: action already running")

// ErrQueueFull is returned by Run when an action using the Queue policy
// cannot buffer another input.
var ErrQueueFull = errors.New("reactive: action queue full")
