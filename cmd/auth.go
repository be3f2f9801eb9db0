package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin authenticates against the API and persists the returned token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.StringArg("password")

	r.logger.Info("logging in", "user", username, "api", r.apiBase())

	token, err := r.client().Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, shared.ErrTokenMissing) {
			// Login succeeded but the token is absent; do not treat as a full success
			return fmt.Errorf("%w: the server accepted the credentials but returned no access_token", shared.ErrTokenMissing)
		}
		return err
	}

	if err := r.session.SetToken(token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return r.writePlainln("✓ Logged in as %s", username)
}

// AuthRegister creates an account. Registration never logs the user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.StringArg("password")

	r.logger.Info("registering", "user", username, "api", r.apiBase())

	if err := r.client().Register(ctx, username, password); err != nil {
		return err
	}

	return r.writePlainln("✓ Registered. Log in with `bioflow auth login`.")
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.ClearToken(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return r.writePlainln("✓ Logged out")
}

// AuthStatus reports login state and probes the liveness endpoint. A failed
// probe only affects the indicator; it never blocks other operations.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlainln("API base: %s", r.apiBase())

	if r.session.LoggedIn() {
		r.writePlainln("Authentication: ✓ token present")
	} else {
		r.writePlainln("Authentication: ✗ not logged in")
	}

	status, err := r.client().Health(ctx)
	if err != nil {
		return r.writePlainln("Service: ✗ unreachable (%v)", err)
	}
	return r.writePlainln("Service: ✓ %s", status)
}

// Health probes the API liveness endpoint.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	status, err := r.client().Health(ctx)
	if err != nil {
		return err
	}
	return r.writePlainln("✓ Service is healthy: %s", status)
}
