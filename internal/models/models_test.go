package models

import (
	"encoding/json"
	"testing"
)

func TestEffectiveStatus(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{"queued", StatusQueued},
		{"finished", StatusFinished},
		{"", StatusUnknown},
		{"running", "running"},
	}
	for _, tc := range cases {
		job := Job{Status: tc.status}
		if got := job.EffectiveStatus(); got != tc.want {
			t.Errorf("status %q: expected %q, got %q", tc.status, tc.want, got)
		}
	}
}

func TestTerminal(t *testing.T) {
	cases := map[string]bool{
		StatusFinished: true,
		StatusFailed:   true,
		StatusQueued:   false,
		StatusUnknown:  false,
		"":             false,
		"running":      false,
	}
	for status, want := range cases {
		job := Job{Status: status}
		if got := job.Terminal(); got != want {
			t.Errorf("status %q: expected terminal=%v, got %v", status, want, got)
		}
	}
}

func TestJobDecoding(t *testing.T) {
	// The API serializes absent fields as JSON null; those must decode to
	// empty strings rather than fail.
	payload := `{"job_id": "job-1", "status": "queued", "summary": null, "created_at": "2026-08-20T10:00:00Z", "result_filename": null, "plot_filename": null}`

	var job Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if job.JobID != "job-1" || job.Status != StatusQueued {
		t.Errorf("unexpected job %+v", job)
	}
	if job.Summary != "" || job.ResultFilename != "" || job.PlotFilename != "" {
		t.Errorf("expected null fields to decode empty, got %+v", job)
	}
}

func TestDownloadKind(t *testing.T) {
	if !KindResult.Valid() || !KindPlot.Valid() {
		t.Error("expected result and plot to be valid kinds")
	}
	for _, kind := range []DownloadKind{"", "csv", "RESULT"} {
		if kind.Valid() {
			t.Errorf("expected %q to be invalid", kind)
		}
	}
}
