package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fberrors "github.com/vango-dev/formbind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬─┐┌┬┐┌┐ ┬┌┐┌┌┬┐
  ├┤ │ │├┬┘│││├┴┐││││ ││
  └  └─┘┴└─┴ ┴└─┘┴┘└┘─┴┘
`

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "formbind",
		Short: "Reactive sign-up form bindings",
		Long: `Formbind drives a reactive sign-up form: an e-mail field, its
confirmation, a terms toggle and a submit button that checks the
username against a directory service.

  • Interactive console driver
  • WebSocket binding server with Prometheus metrics
  • Username directories backed by a stub, S3 or MySQL`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(
		runCmd(flags),
		serveCmd(flags),
		accountsCmd(flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var fe *fberrors.Error
		if errors.As(err, &fe) {
			fmt.Fprintln(os.Stderr, fe.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the formbind ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
