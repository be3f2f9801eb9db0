package models

// Job statuses reported by the API. The server may return values outside
// this set; anything non-terminal keeps a poll loop running.
const (
	StatusQueued   = "queued"
	StatusFinished = "finished"
	StatusFailed   = "failed"
	StatusUnknown  = "unknown"
)

// Job represents an analysis job as returned by the BioFlow API.
// The client holds a transient read-through copy; the server owns the record.
type Job struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	Summary        string `json:"summary"`
	CreatedAt      string `json:"created_at"`
	ResultFilename string `json:"result_filename"`
	PlotFilename   string `json:"plot_filename"`
}

// EffectiveStatus returns the job's status, substituting [StatusUnknown]
// when the server omitted the field.
func (j Job) EffectiveStatus() string {
	if j.Status == "" {
		return StatusUnknown
	}
	return j.Status
}

// Terminal reports whether the job has reached a final state.
func (j Job) Terminal() bool {
	s := j.EffectiveStatus()
	return s == StatusFinished || s == StatusFailed
}

// DownloadKind selects which job artifact to download.
type DownloadKind string

const (
	KindResult DownloadKind = "result"
	KindPlot   DownloadKind = "plot"
)

// Valid reports whether the kind is one the API accepts.
func (k DownloadKind) Valid() bool {
	return k == KindResult || k == KindPlot
}
