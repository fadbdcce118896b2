package signup

import (
	"log/slog"
	"time"

	"github.com/vango-dev/formbind/internal/config"
	"github.com/vango-dev/formbind/pkg/reactive"
)

// Option configures a ViewModel.
type Option func(*settings)

type settings struct {
	sched         reactive.Scheduler
	debounce      time.Duration
	suffix        string
	strict        bool
	logger        *slog.Logger
	middleware    []reactive.Middleware
	lookupTimeout time.Duration
}

func defaultSettings() settings {
	return settings{
		sched:    reactive.Immediate,
		debounce: config.DefaultDebounce,
		suffix:   config.DefaultRequiredSuffix,
		logger:   slog.Default(),
	}
}

// WithScheduler sets the main context. Debounced reasons and submit state
// transitions are delivered on it.
func WithScheduler(s reactive.Scheduler) Option {
	return func(o *settings) {
		if s != nil {
			o.sched = s
		}
	}
}

// WithDebounce sets the quiet period of the reasons label.
func WithDebounce(d time.Duration) Option {
	return func(o *settings) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithRequiredSuffix sets the domain stripped from the address to obtain
// the username.
func WithRequiredSuffix(suffix string) Option {
	return func(o *settings) {
		if suffix != "" {
			o.suffix = suffix
		}
	}
}

// WithStrictValidation enables the field validators and gates submission
// on all of them.
func WithStrictValidation(strict bool) Option {
	return func(o *settings) {
		o.strict = strict
	}
}

// WithLogger sets the logger for request and submission diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *settings) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithActionMiddleware wraps every submit execution.
func WithActionMiddleware(mw ...reactive.Middleware) Option {
	return func(o *settings) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithLookupTimeout bounds every submit execution.
func WithLookupTimeout(d time.Duration) Option {
	return func(o *settings) {
		o.lookupTimeout = d
	}
}

// FromConfig converts cfg into options.
func FromConfig(cfg *config.Config) []Option {
	if cfg == nil {
		return nil
	}
	return []Option{
		WithDebounce(cfg.Debounce.Duration),
		WithRequiredSuffix(cfg.RequiredSuffix),
		WithStrictValidation(cfg.StrictValidation),
		WithLookupTimeout(cfg.Backend.Timeout.Duration),
	}
}
