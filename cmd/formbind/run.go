package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formbind/internal/console"
	"github.com/vango-dev/formbind/pkg/observe"
	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/signup"
)

func runCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive the sign-up form from the terminal",
		Long: `Drive the sign-up form from the terminal.

Each line is a command:

  email <address>     set the e-mail field
  confirm <address>   set the confirmation field
  terms on|off        toggle the terms
  submit              press the submit button
  status              show the form
  quit                leave

Examples:
  formbind run
  formbind run --strict
  formbind run --backend=mysql --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, flags)
		},
	}
}

func runConsole(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := flags.load(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.Log.NewLogger(os.Stderr)

	svc, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	loop := reactive.NewLoop(reactive.WithLoopLogger(logger))
	defer loop.Close()

	opts := append(signup.FromConfig(cfg),
		signup.WithScheduler(loop),
		signup.WithLogger(logger),
		signup.WithActionMiddleware(observe.Logging(logger)),
	)
	vm := signup.New(svc, opts...)
	defer vm.Close()

	printBanner()
	if cfg.Path() != "" {
		info("Config:  %s", cfg.Path())
	}
	info("Backend: %s", cfg.Backend.Kind)
	if cfg.StrictValidation {
		info("Strict validation enabled")
	}
	info("Required suffix: %s", cfg.RequiredSuffix)

	c := console.New(vm, loop, os.Stdout)
	defer c.Close()

	return c.Run(ctx, os.Stdin)
}
