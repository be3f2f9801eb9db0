package history

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/bioflow/internal/models"
	"github.com/desertthunder/bioflow/internal/shared"
)

// Snapshot is a locally retained copy of a job as last seen from the server.
type Snapshot struct {
	models.Job
	LastSeenAt string
}

// Download records an artifact saved to disk.
type Download struct {
	ID        string
	JobID     string
	Kind      string
	Filename  string
	Path      string
	CreatedAt string
}

// Store persists job snapshots and download records.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordJob upserts a snapshot of the job, refreshing last_seen_at.
func (s *Store) RecordJob(job models.Job) error {
	query := `
		INSERT INTO job_snapshots (job_id, status, summary, created_at, result_filename, plot_filename, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(job_id) DO UPDATE SET
			status = excluded.status,
			summary = excluded.summary,
			result_filename = excluded.result_filename,
			plot_filename = excluded.plot_filename,
			last_seen_at = CURRENT_TIMESTAMP
	`
	_, err := s.db.Exec(query, job.JobID, job.EffectiveStatus(), job.Summary, job.CreatedAt, job.ResultFilename, job.PlotFilename)
	if err != nil {
		return fmt.Errorf("failed to record job snapshot: %w", err)
	}
	return nil
}

// RecordJobs upserts snapshots for every job in the list.
func (s *Store) RecordJobs(jobs []models.Job) error {
	for _, job := range jobs {
		if err := s.RecordJob(job); err != nil {
			return err
		}
	}
	return nil
}

// Jobs returns all snapshots, newest creation first.
func (s *Store) Jobs() ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT job_id, status, summary, created_at, result_filename, plot_filename, last_seen_at
		FROM job_snapshots
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query job snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var summary, result, plot sql.NullString
		if err := rows.Scan(&snap.JobID, &snap.Status, &summary, &snap.CreatedAt, &result, &plot, &snap.LastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan job snapshot: %w", err)
		}
		snap.Summary = summary.String
		snap.ResultFilename = result.String
		snap.PlotFilename = plot.String
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

// RecordDownload stores a download record and returns its generated ID.
func (s *Store) RecordDownload(jobID string, kind models.DownloadKind, filename, path string) (string, error) {
	id := shared.GenerateID()
	_, err := s.db.Exec(
		"INSERT INTO downloads (id, job_id, kind, filename, path) VALUES (?, ?, ?, ?, ?)",
		id, jobID, string(kind), filename, path,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record download: %w", err)
	}
	return id, nil
}

// Downloads returns the download records for a job, newest first.
func (s *Store) Downloads(jobID string) ([]Download, error) {
	rows, err := s.db.Query(`
		SELECT id, job_id, kind, filename, path, created_at
		FROM downloads
		WHERE job_id = ?
		ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var downloads []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.ID, &d.JobID, &d.Kind, &d.Filename, &d.Path, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		downloads = append(downloads, d)
	}

	return downloads, rows.Err()
}
