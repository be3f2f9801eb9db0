package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes an example config.toml.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlainln("✓ Wrote %s", path)
}

// ConfigSetAPI saves an API base override in the session and re-runs the
// health check against it.
func (r *Runner) ConfigSetAPI(ctx context.Context, cmd *cli.Command) error {
	base := cmd.StringArg("url")
	if base == "" {
		return fmt.Errorf("%w: API base URL", shared.ErrMissingArgument)
	}

	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute URL", shared.ErrInvalidInput, base)
	}

	if err := r.session.SetAPIBase(base); err != nil {
		return fmt.Errorf("failed to persist API base: %w", err)
	}
	r.writePlainln("✓ API base set to %s", base)

	status, err := r.client().Health(ctx)
	if err != nil {
		return r.writePlainln("Service: ✗ unreachable (%v)", err)
	}
	return r.writePlainln("Service: ✓ %s", status)
}

// ConfigShow prints the effective configuration.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"api_base":  r.apiBase(),
			"logged_in": r.session.LoggedIn(),
			"database":  r.config.Database.Path,
			"downloads": r.config.Downloads.Dir,
		}, true)
	}

	r.writePlainln("API base:  %s", r.apiBase())
	r.writePlainln("Logged in: %v", r.session.LoggedIn())
	r.writePlainln("History:   %s", r.config.Database.Path)
	r.writePlainln("Downloads: %s", r.config.Downloads.Dir)
	return nil
}
