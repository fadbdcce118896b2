package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/formbind/pkg/binding"
	"github.com/vango-dev/formbind/pkg/observe"
	"github.com/vango-dev/formbind/pkg/signup"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form bindings over WebSocket",
		Long: `Serve form bindings over WebSocket.

Each connection to /ws gets its own form. /metrics exposes Prometheus
metrics and /healthz reports liveness.

Examples:
  formbind serve
  formbind serve --addr=:9090
  formbind serve --backend=s3 --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, addr string) error {
	cfg, err := flags.load(cmd)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.Log.NewLogger(os.Stderr)

	svc, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	metrics := observe.Shared()
	tracing := observe.Tracing(observe.WithSpanAttributes(
		attribute.String("formbind.backend", cfg.Backend.Kind),
	))

	opts := append(binding.FromConfig(cfg),
		binding.WithLogger(logger),
		binding.WithMetrics(metrics, prometheus.DefaultGatherer),
		binding.WithViewModelOptions(
			signup.WithActionMiddleware(tracing, observe.Logging(logger)),
		),
	)
	srv := binding.New(svc, opts...)

	printBanner()
	success("Listening on %s", cfg.Server.Addr)
	info("Backend: %s", cfg.Backend.Kind)
	if cfg.StrictValidation {
		info("Strict validation enabled")
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		warn("No allowed origins configured, accepting same-origin upgrades only")
	}

	return srv.ListenAndServe(ctx)
}
