package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/bioflow/internal/models"
	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/desertthunder/bioflow/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Analyze uploads a CSV and, unless --no-wait is set, polls the created job
// until it reaches a terminal state or the poll budget runs out.
//
// An analysis starts only when a token is present and a readable file is
// given; both are checked locally before any network call.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: path to a CSV file", shared.ErrMissingArgument)
	}
	if !r.session.LoggedIn() {
		return fmt.Errorf("%w: log in before starting an analysis", shared.ErrNotAuthenticated)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	defer file.Close()

	client := r.client()

	r.logger.Info("uploading CSV", "file", path)
	jobID, err := client.UploadCSV(ctx, filepath.Base(path), file)
	if err != nil {
		return err
	}
	r.writePlainln("✓ Job created: %s", jobID)

	r.recordJobSnapshot(models.Job{JobID: jobID, Status: models.StatusQueued})

	if cmd.Bool("no-wait") {
		r.writePlainln("Check progress with `bioflow jobs watch %s`", jobID)
		return nil
	}

	return r.watchJob(ctx, jobID)
}

// watchJob drives the poller and reports each tick as inline status.
func (r *Runner) watchJob(ctx context.Context, jobID string) error {
	client := r.client()
	poller := tasks.NewPoller(client, tasks.PollerOpts{})

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "job", jobID, "status", update.Status)
		}
	}()

	result, err := poller.Poll(ctx, jobID, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if result.Job != nil {
		r.recordJobSnapshot(*result.Job)
	}

	switch result.State {
	case tasks.Finished:
		r.writePlainln("✓ Analysis finished after %d polls", result.Polls)
		r.writePlainln("Summary: %s", result.Summary)
		return nil
	case tasks.Failed:
		return fmt.Errorf("%w: job %s", shared.ErrJobFailed, jobID)
	default:
		return fmt.Errorf("%w: job %s still %q after %d polls", shared.ErrPollTimeout, jobID, result.Status, result.Polls)
	}
}

// recordJobSnapshot best-effort persists a job to the local history.
func (r *Runner) recordJobSnapshot(job models.Job) {
	store, closeStore, err := r.openHistory()
	if err != nil {
		r.logger.Warn("history unavailable", "error", err)
		return
	}
	defer closeStore()

	if err := store.RecordJob(job); err != nil {
		r.logger.Warn("failed to record job snapshot", "error", err)
	}
}
