package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/bioflow/internal/models"
	"golang.org/x/time/rate"
)

// JobFetcher defines the API surface the poller needs.
// This abstraction allows for easier testing and decoupling from the concrete client.
type JobFetcher interface {
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
}

// PollState is the poller's state machine position.
type PollState int

const (
	Polling PollState = iota // job not yet terminal, loop continues
	Finished
	Failed
	TimedOut // poll budget exhausted without a terminal status
)

func (s PollState) String() string {
	switch s {
	case Polling:
		return "polling"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	default:
		return ""
	}
}

// ProgressUpdate represents one poll tick, sent to the CLI or UI layer for display.
type ProgressUpdate struct {
	State    PollState
	Poll     int    // Current poll number, 1-based
	MaxPolls int    // Poll budget
	Status   string // Status the server reported on this tick
	Message  string // Human-readable message for display
}

// PollResult is the poller's terminal outcome.
type PollResult struct {
	State   PollState
	Status  string // Last status the server reported
	Summary string // Analysis summary, empty when the server omitted it
	Polls   int    // Number of polls issued
	Job     *models.Job
}

// PollerOpts contains configuration for a Poller.
type PollerOpts struct {
	Interval time.Duration // Delay between polls (default: 1s)
	MaxPolls int           // Poll budget (default: 60)
}

// Poller repeatedly fetches a job until it reaches a terminal state or the
// poll budget runs out. Budget exhaustion is an explicit TimedOut result,
// not a silent stop.
type Poller struct {
	api      JobFetcher
	limiter  *rate.Limiter
	maxPolls int
}

// NewPoller creates a Poller with a 1 Hz cadence and a 60-poll budget unless
// overridden in opts.
func NewPoller(api JobFetcher, opts PollerOpts) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = 60
	}

	return &Poller{
		api:      api,
		limiter:  rate.NewLimiter(rate.Every(opts.Interval), 1),
		maxPolls: opts.MaxPolls,
	}
}

// Poll drives the job's status to a terminal state.
//
// Each tick fetches the job with the auth header; a fetch failure stops
// polling and is returned as-is (transport failures are not retried). A
// "finished" status yields Finished with the summary, "failed" yields
// Failed, and anything else (including an absent status, reported as
// "unknown") keeps the loop running until the budget is exhausted, which
// yields TimedOut.
func (p *Poller) Poll(ctx context.Context, jobID string, progress chan<- ProgressUpdate) (*PollResult, error) {
	lastStatus := models.StatusUnknown

	for n := 1; n <= p.maxPolls; n++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		job, err := p.api.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		lastStatus = job.EffectiveStatus()

		switch lastStatus {
		case models.StatusFinished:
			sendProgress(progress, ProgressUpdate{
				State: Finished, Poll: n, MaxPolls: p.maxPolls, Status: lastStatus,
				Message: "Analysis finished",
			})
			return &PollResult{State: Finished, Status: lastStatus, Summary: job.Summary, Polls: n, Job: job}, nil

		case models.StatusFailed:
			sendProgress(progress, ProgressUpdate{
				State: Failed, Poll: n, MaxPolls: p.maxPolls, Status: lastStatus,
				Message: "Analysis failed",
			})
			return &PollResult{State: Failed, Status: lastStatus, Polls: n, Job: job}, nil

		default:
			sendProgress(progress, ProgressUpdate{
				State: Polling, Poll: n, MaxPolls: p.maxPolls, Status: lastStatus,
				Message: fmt.Sprintf("Current status: %s (%d/%d)", lastStatus, n, p.maxPolls),
			})
		}
	}

	sendProgress(progress, ProgressUpdate{
		State: TimedOut, Poll: p.maxPolls, MaxPolls: p.maxPolls, Status: lastStatus,
		Message: fmt.Sprintf("Gave up after %d polls, last status: %s", p.maxPolls, lastStatus),
	})
	return &PollResult{State: TimedOut, Status: lastStatus, Polls: p.maxPolls}, nil
}

func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update rather than stalling the poll loop
	}
}
