package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/bioflow/internal/models"
	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/desertthunder/bioflow/internal/ui"
	"github.com/urfave/cli/v3"
)

// JobsList fetches and prints the user's jobs in server order.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	jobs, err := r.client().ListJobs(ctx)
	if err != nil {
		return err
	}

	if store, closeStore, herr := r.openHistory(); herr == nil {
		if err := store.RecordJobs(jobs); err != nil {
			r.logger.Warn("failed to record job snapshots", "error", err)
		}
		closeStore()
	}

	if cmd.Bool("json") {
		return r.writeJSON(jobs, true)
	}

	if len(jobs) == 0 {
		return r.writePlainln("No analysis jobs yet.")
	}

	for _, job := range jobs {
		r.printJob(job)
	}
	return nil
}

// JobsShow prints one job's status and detail.
func (r *Runner) JobsShow(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("id")
	if jobID == "" {
		return fmt.Errorf("%w: job id", shared.ErrMissingArgument)
	}

	job, err := r.client().GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	r.recordJobSnapshot(*job)

	if cmd.Bool("json") {
		return r.writeJSON(job, true)
	}

	r.printJob(*job)
	return nil
}

// JobsWatch polls a job until it reaches a terminal state or the poll budget
// runs out.
func (r *Runner) JobsWatch(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("id")
	if jobID == "" {
		return fmt.Errorf("%w: job id", shared.ErrMissingArgument)
	}

	return r.watchJob(ctx, jobID)
}

// JobsDownload fetches a job artifact and saves it to disk. The filename
// comes from the server's Content-Disposition header when present.
func (r *Runner) JobsDownload(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("id")
	if jobID == "" {
		return fmt.Errorf("%w: job id", shared.ErrMissingArgument)
	}

	kind := models.DownloadKind(cmd.String("kind"))
	if !kind.Valid() {
		return fmt.Errorf("%w: --kind must be result or plot", shared.ErrInvalidFlag)
	}

	artifact, err := r.client().Download(ctx, jobID, kind)
	if err != nil {
		return err
	}

	dir := cmd.String("output")
	if dir == "" {
		dir = r.config.Downloads.Dir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}

	if store, closeStore, herr := r.openHistory(); herr == nil {
		if _, err := store.RecordDownload(jobID, kind, artifact.Filename, path); err != nil {
			r.logger.Warn("failed to record download", "error", err)
		}
		closeStore()
	}

	return r.writePlainln("✓ Saved %s", path)
}

// JobsDelete removes a job after confirmation, then refetches the list.
func (r *Runner) JobsDelete(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("id")
	if jobID == "" {
		return fmt.Errorf("%w: job id", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") && !r.confirm("Delete job %s and its result files?", jobID) {
		// Declined: no DELETE is issued and the list is not reloaded
		return r.writePlainln("Aborted.")
	}

	client := r.client()
	if err := client.DeleteJob(ctx, jobID); err != nil {
		return err
	}
	r.writePlainln("✓ Deleted %s", jobID)

	// Full refetch rather than optimistic local removal
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		r.logger.Warn("failed to reload job list", "error", err)
		return nil
	}
	return r.writePlainln("%d job(s) remaining", len(jobs))
}

// JobsHistory lists locally retained job snapshots, which survive
// server-side quota eviction.
func (r *Runner) JobsHistory(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeStore()

	snapshots, err := store.Jobs()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshots, true)
	}

	if len(snapshots) == 0 {
		return r.writePlainln("No local history yet.")
	}

	for _, snap := range snapshots {
		r.printJob(snap.Job)
	}
	return nil
}

func (r *Runner) printJob(job models.Job) {
	r.writePlainln("%s  %s  %s", job.JobID, ui.StatusBadge(job.EffectiveStatus()), job.CreatedAt)
	if job.Summary != "" {
		r.writePlainln("    %s", job.Summary)
	}
	if job.ResultFilename != "" {
		r.writePlainln("    result: %s", job.ResultFilename)
	}
	if job.PlotFilename != "" {
		r.writePlainln("    plot:   %s", job.PlotFilename)
	}
}
