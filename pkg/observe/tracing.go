package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
)

// Default tracer name for formbind spans.
const defaultTracerName = "formbind"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "formbind").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithSpanAttributes adds attributes to every span.
func WithSpanAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracing returns middleware that wraps every action execution in a span.
// The span context is passed down, so service calls made by the action
// become child spans.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main():
//
//	otel.SetTracerProvider(tp)
func Tracing(opts ...TracingOption) reactive.Middleware {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(ctx context.Context, name string, next func(context.Context) error) error {
		attrs := append([]attribute.KeyValue{
			attribute.String("formbind.action", name),
		}, config.Attributes...)

		spanCtx, span := tracer.Start(ctx, "formbind."+name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next(spanCtx)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if code := fberrors.CodeOf(err); code != "" {
				span.SetAttributes(attribute.String("formbind.error_code", code))
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
