package userservice

import (
	"context"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
)

// ErrServiceUnavailable is matched by every lookup failure.
var ErrServiceUnavailable = fberrors.New("S001")

// Service checks username availability.
type Service interface {
	// CanUseUsername reports whether username is available. The username
	// is published on Requests before the lookup resolves.
	CanUseUsername(ctx context.Context, username string) (bool, error)

	// Requests emits every username passed to CanUseUsername.
	Requests() reactive.Stream[string]
}

// requestLog is the request stream shared by every implementation.
type requestLog struct {
	pipe *reactive.Pipe[string]
}

func newRequestLog() requestLog {
	return requestLog{pipe: reactive.NewPipe[string]()}
}

func (r requestLog) publish(username string) {
	r.pipe.Send(username)
}

// Requests emits every username passed to CanUseUsername.
func (r requestLog) Requests() reactive.Stream[string] {
	return r.pipe
}

// Close stops the request stream.
func (r requestLog) Close() {
	r.pipe.Dispose()
}

func unavailable(detail string, err error) error {
	return ErrServiceUnavailable.WithDetail(detail).Wrap(err)
}
