package binding

import (
	"context"

	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/userservice"
)

// scopedService gives one connection its own request stream over a shared
// service.
type scopedService struct {
	userservice.Service
	requests *reactive.Pipe[string]
}

func newScopedService(svc userservice.Service) *scopedService {
	return &scopedService{Service: svc, requests: reactive.NewPipe[string]()}
}

func (s *scopedService) CanUseUsername(ctx context.Context, username string) (bool, error) {
	s.requests.Send(username)
	return s.Service.CanUseUsername(ctx, username)
}

func (s *scopedService) Requests() reactive.Stream[string] {
	return s.requests
}

func (s *scopedService) close() {
	s.requests.Dispose()
}
