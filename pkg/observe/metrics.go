package observe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "formbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for action duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "formbind",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the formbind collectors registered on one registry.
type Metrics struct {
	runsTotal      *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	requestsTotal  prometheus.Counter
	activeBindings prometheus.Gauge
}

// NewMetrics registers the collectors. It panics if they are already
// registered on the same registry; use Shared to reuse them.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_runs_total",
			Help:        "Total number of action executions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_duration_seconds",
			Help:        "Action execution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_errors_total",
			Help:        "Total number of failed action executions by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "error_type"}),

		requestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "username_requests_total",
			Help:        "Total number of usernames sent to the username service",
			ConstLabels: config.ConstLabels,
		}),

		activeBindings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_bindings",
			Help:        "Number of connected form bindings",
			ConstLabels: config.ConstLabels,
		}),
	}
}

var (
	sharedMu      sync.Mutex
	sharedMetrics = map[prometheus.Registerer]*Metrics{}
)

// Shared returns the collectors registered on the configured registry,
// creating them on first use.
func Shared(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if m, ok := sharedMetrics[config.Registry]; ok {
		return m
	}
	m := NewMetrics(opts...)
	sharedMetrics[config.Registry] = m
	return m
}

// Prometheus returns middleware recording every action execution on the
// shared collectors.
//
// Metrics collected:
//   - formbind_action_runs_total: Counter of executions by action and status
//   - formbind_action_duration_seconds: Histogram of execution duration
//   - formbind_action_errors_total: Counter of failures by action and error type
func Prometheus(opts ...MetricsOption) reactive.Middleware {
	return Shared(opts...).Middleware()
}

// CountRequests counts every username emitted by requests on the shared
// collectors (formbind_username_requests_total).
func CountRequests(requests reactive.Stream[string], opts ...MetricsOption) *reactive.Subscription {
	return Shared(opts...).CountRequests(requests)
}

// Middleware returns middleware recording every action execution.
func (m *Metrics) Middleware() reactive.Middleware {
	return func(ctx context.Context, name string, next func(context.Context) error) error {
		start := time.Now()

		err := next(ctx)

		m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
			m.errorsTotal.WithLabelValues(name, categorizeError(err)).Inc()
		}
		m.runsTotal.WithLabelValues(name, status).Inc()

		return err
	}
}

// CountRequests increments the request counter for every value of
// requests.
func (m *Metrics) CountRequests(requests reactive.Stream[string]) *reactive.Subscription {
	return requests.Subscribe(func(string) {
		m.requestsTotal.Inc()
	})
}

// BindingOpened records a connected binding.
func (m *Metrics) BindingOpened() {
	m.activeBindings.Inc()
}

// BindingClosed records a disconnected binding.
func (m *Metrics) BindingClosed() {
	m.activeBindings.Dec()
}

// categorizeError returns a low-cardinality label for err. Context errors
// win over codes, since coded errors often wrap them.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	if code := fberrors.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}
