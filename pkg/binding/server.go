package binding

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/formbind/pkg/observe"
	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/signup"
	"github.com/vango-dev/formbind/pkg/userservice"
)

// Server binds sign-up forms to WebSocket connections.
type Server struct {
	svc      userservice.Service
	config   Config
	vmOpts   []signup.Option
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	metrics  *observe.Metrics
	gatherer prometheus.Gatherer
	counted  *reactive.Subscription

	mu         sync.Mutex
	conns      map[*connection]struct{}
	httpServer *http.Server
}

// New creates a server over the shared username service.
func New(svc userservice.Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		logger: slog.Default(),
		conns:  make(map[*connection]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.config.applyDefaults()
	s.logger = s.logger.With("component", "binding")

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		CheckOrigin:     checkOrigin(s.config.AllowedOrigins),
	}

	if s.metrics != nil {
		s.counted = s.metrics.CountRequests(svc.Requests())
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.HandleWebSocket)
	return r
}

// Handler returns the router for mounting in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HandleWebSocket upgrades the request and serves one form until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConnection(s, conn)
	if !s.track(c) {
		c.discard()
		return
	}
	defer s.untrack(c)

	if s.metrics != nil {
		s.metrics.BindingOpened()
		defer s.metrics.BindingClosed()
	}

	c.serve()
}

func (s *Server) track(c *connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

// ActiveBindings returns the number of connected forms.
func (s *Server) ActiveBindings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every binding and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	srv := s.httpServer
	s.mu.Unlock()

	for c := range conns {
		c.close()
	}
	if s.counted != nil {
		s.counted.Unsubscribe()
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
