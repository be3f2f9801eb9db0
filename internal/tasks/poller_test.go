package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/bioflow/internal/models"
)

// scriptedFetcher returns one job per GetJob call, in order, repeating the
// last entry once the script runs out.
type scriptedFetcher struct {
	script []models.Job
	err    error
	calls  int
}

func (f *scriptedFetcher) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	idx := f.calls - 1
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	job := f.script[idx]
	job.JobID = jobID
	return &job, nil
}

func queuedTimes(n int) []models.Job {
	jobs := make([]models.Job, n)
	for i := range jobs {
		jobs[i] = models.Job{Status: models.StatusQueued}
	}
	return jobs
}

func fastOpts() PollerOpts {
	return PollerOpts{Interval: time.Millisecond}
}

func TestPoll(t *testing.T) {
	ctx := context.Background()

	t.Run("Finishes On Last Allowed Poll", func(t *testing.T) {
		script := append(queuedTimes(59), models.Job{
			Status:  models.StatusFinished,
			Summary: "Processed 1200 rows",
		})
		fetcher := &scriptedFetcher{script: script}

		result, err := NewPoller(fetcher, fastOpts()).Poll(ctx, "job-1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.State != Finished {
			t.Errorf("expected Finished, got %s", result.State)
		}
		if result.Summary != "Processed 1200 rows" {
			t.Errorf("expected summary, got %q", result.Summary)
		}
		if result.Polls != 60 || fetcher.calls != 60 {
			t.Errorf("expected 60 polls, got result %d, calls %d", result.Polls, fetcher.calls)
		}
	})

	t.Run("Never Terminal Times Out After Budget", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: queuedTimes(1)}

		result, err := NewPoller(fetcher, fastOpts()).Poll(ctx, "job-2", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.State != TimedOut {
			t.Errorf("expected TimedOut, got %s", result.State)
		}
		if result.Status != models.StatusQueued {
			t.Errorf("expected last status queued, got %q", result.Status)
		}
		if fetcher.calls != 60 {
			t.Errorf("expected exactly 60 fetches, got %d", fetcher.calls)
		}
	})

	t.Run("Failed Status Is Terminal", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []models.Job{
			{Status: models.StatusQueued},
			{Status: models.StatusFailed},
		}}

		result, err := NewPoller(fetcher, fastOpts()).Poll(ctx, "job-3", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.State != Failed {
			t.Errorf("expected Failed, got %s", result.State)
		}
		if result.Polls != 2 || fetcher.calls != 2 {
			t.Errorf("expected 2 polls, got result %d, calls %d", result.Polls, fetcher.calls)
		}
	})

	t.Run("Fetch Error Stops Polling", func(t *testing.T) {
		fetchErr := errors.New("connection refused")
		fetcher := &scriptedFetcher{err: fetchErr}

		_, err := NewPoller(fetcher, fastOpts()).Poll(ctx, "job-4", nil)
		if !errors.Is(err, fetchErr) {
			t.Errorf("expected fetch error returned as-is, got %v", err)
		}
		if fetcher.calls != 1 {
			t.Errorf("expected polling to stop after 1 fetch, got %d", fetcher.calls)
		}
	})

	t.Run("Absent Status Is Unknown And Non-Terminal", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []models.Job{
			{Status: ""},
			{Status: models.StatusFinished},
		}}

		progress := make(chan ProgressUpdate, 8)
		result, err := NewPoller(fetcher, fastOpts()).Poll(ctx, "job-5", progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.State != Finished || result.Polls != 2 {
			t.Errorf("expected Finished after 2 polls, got %s after %d", result.State, result.Polls)
		}

		first := <-progress
		if first.Status != models.StatusUnknown {
			t.Errorf("expected first tick to report unknown, got %q", first.Status)
		}
		if first.State != Polling {
			t.Errorf("expected first tick to be non-terminal, got %s", first.State)
		}
	})

	t.Run("Progress Updates Carry Poll Counts", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []models.Job{
			{Status: models.StatusQueued},
			{Status: models.StatusQueued},
			{Status: models.StatusFinished},
		}}

		progress := make(chan ProgressUpdate, 8)
		if _, err := NewPoller(fetcher, fastOpts()).Poll(ctx, "job-6", progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var updates []ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		if len(updates) != 3 {
			t.Fatalf("expected 3 updates, got %d", len(updates))
		}
		for i, u := range updates {
			if u.Poll != i+1 {
				t.Errorf("update %d: expected poll %d, got %d", i, i+1, u.Poll)
			}
			if u.MaxPolls != 60 {
				t.Errorf("update %d: expected budget 60, got %d", i, u.MaxPolls)
			}
		}
		if updates[2].State != Finished {
			t.Errorf("expected final update to be Finished, got %s", updates[2].State)
		}
	})

	t.Run("Full Progress Channel Does Not Stall", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: queuedTimes(1)}
		poller := NewPoller(fetcher, PollerOpts{Interval: time.Millisecond, MaxPolls: 5})

		// Capacity 1 and no reader: later updates must be dropped, not block.
		progress := make(chan ProgressUpdate, 1)
		result, err := poller.Poll(ctx, "job-7", progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.State != TimedOut {
			t.Errorf("expected TimedOut, got %s", result.State)
		}
	})

	t.Run("Cancelled Context Aborts Wait", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: queuedTimes(1)}
		poller := NewPoller(fetcher, PollerOpts{Interval: time.Hour, MaxPolls: 60})

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := poller.Poll(cctx, "job-8", nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestPollStateString(t *testing.T) {
	cases := map[PollState]string{
		Polling:  "polling",
		Finished: "finished",
		Failed:   "failed",
		TimedOut: "timed_out",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
