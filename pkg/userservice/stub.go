package userservice

import (
	"context"
	"sync"
	"time"
)

// Stub is an in-memory Service. By default every username is available
// and lookups resolve immediately.
type Stub struct {
	requestLog

	mu      sync.RWMutex
	taken   map[string]struct{}
	latency time.Duration
	failure error
}

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithTaken marks usernames as unavailable.
func WithTaken(usernames ...string) StubOption {
	return func(s *Stub) {
		for _, u := range usernames {
			s.taken[u] = struct{}{}
		}
	}
}

// WithLatency delays every lookup by d. The delay honors ctx.
func WithLatency(d time.Duration) StubOption {
	return func(s *Stub) {
		s.latency = d
	}
}

// WithFailure makes every lookup fail with err wrapped in
// ErrServiceUnavailable.
func WithFailure(err error) StubOption {
	return func(s *Stub) {
		s.failure = err
	}
}

// NewStub creates an in-memory Service.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{
		requestLog: newRequestLog(),
		taken:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanUseUsername publishes username, waits for the configured latency and
// reports whether username was marked taken.
func (s *Stub) CanUseUsername(ctx context.Context, username string) (bool, error) {
	s.publish(username)

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, unavailable("lookup cancelled", ctx.Err())
		case <-timer.C:
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failure != nil {
		return false, unavailable("stub configured to fail", s.failure)
	}
	_, taken := s.taken[username]
	return !taken, nil
}

// Take marks usernames as unavailable.
func (s *Stub) Take(usernames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		s.taken[u] = struct{}{}
	}
}

// Release makes usernames available again.
func (s *Stub) Release(usernames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		delete(s.taken, u)
	}
}
