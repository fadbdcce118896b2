package binding

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/formbind/internal/config"
	"github.com/vango-dev/formbind/pkg/observe"
	"github.com/vango-dev/formbind/pkg/signup"
)

// Config configures the binding server.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// AllowedOrigins lists origins allowed to open a binding. "*" allows
	// every origin. Empty enforces same-origin.
	AllowedOrigins []string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers (default 5s).
	ReadHeaderTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the server configuration. Zero fields take defaults.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.config.Addr = addr
	}
}

// WithAllowedOrigins sets the origins allowed to open a binding.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.config.AllowedOrigins = origins
	}
}

// WithViewModelOptions applies opts to every view model. The scheduler
// and logger are always set per connection.
func WithViewModelOptions(opts ...signup.Option) Option {
	return func(s *Server) {
		s.vmOpts = append(s.vmOpts, opts...)
	}
}

// WithMetrics records action runs, requests and connections on m and
// serves gatherer on /metrics.
func WithMetrics(m *observe.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FromConfig converts the server section of cfg into options.
func FromConfig(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	return []Option{
		WithAddr(cfg.Server.Addr),
		WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		WithViewModelOptions(signup.FromConfig(cfg)...),
	}
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = config.DefaultAddr
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 4096
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = 4096
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
}

// checkOrigin returns the upgrade origin policy for allowed.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return SameOriginCheck
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		if set["*"] {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return set[origin]
	}
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
