package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formbind/internal/config"
	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/userservice"
)

// accountStore is the writable side of the MySQL directory.
type accountStore interface {
	Register(ctx context.Context, username, email string) error
	Deactivate(ctx context.Context, username string) error
}

func accountsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts in the MySQL directory",
		Long: `Manage accounts in the MySQL directory.

Registered usernames are reported as taken by the sign-up form.
Deactivated accounts keep their username reserved.

Examples:
  formbind accounts add alice@gmail.com --backend=mysql
  formbind accounts deactivate alice --backend=mysql`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <email>",
			Short: "Register the username of an address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withAccounts(cmd, flags, func(ctx context.Context, cfg *config.Config, store accountStore) error {
					username, err := addAccount(ctx, store, cfg.RequiredSuffix, args[0])
					if err != nil {
						return err
					}
					success("Registered %s", username)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "deactivate <username>",
			Short: "Deactivate an account, keeping its username reserved",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withAccounts(cmd, flags, func(ctx context.Context, _ *config.Config, store accountStore) error {
					if err := store.Deactivate(ctx, args[0]); err != nil {
						return err
					}
					success("Deactivated %s", args[0])
					return nil
				})
			},
		},
	)

	return cmd
}

func withAccounts(cmd *cobra.Command, flags *globalFlags, fn func(context.Context, *config.Config, accountStore) error) error {
	cfg, err := flags.load(cmd)
	if err != nil {
		return err
	}
	if cfg.Backend.Kind != config.BackendMySQL {
		return fberrors.New("C001").
			WithDetail(fmt.Sprintf("accounts require the mysql backend, got %q", cfg.Backend.Kind))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir, closeDir, err := openSQLDirectory(ctx, cfg.Backend.MySQL)
	if err != nil {
		return err
	}
	defer closeDir()

	return fn(ctx, cfg, dir)
}

// addAccount registers the username of email, which must carry suffix.
func addAccount(ctx context.Context, store accountStore, suffix, email string) (string, error) {
	username, ok := strings.CutSuffix(email, suffix)
	if !ok || username == "" {
		return "", fberrors.New("F001").
			WithDetail(fmt.Sprintf("%q does not end with %s", email, suffix))
	}

	err := store.Register(ctx, username, email)
	if errors.Is(err, userservice.ErrDuplicateUsername) {
		return "", fberrors.New("F003").WithDetail(username + " is already registered").Wrap(err)
	}
	if err != nil {
		return "", err
	}
	return username, nil
}
