package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// JobRepo stores finished migration reports for later inspection.
type JobRepo struct {
	db *sql.DB
}

func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

// SaveReport persists a run's report under its job id.
func (r *JobRepo) SaveReport(ctx context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	dryRun := 0
	if report.DryRun {
		dryRun = 1
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO migration_jobs (id, status, dry_run, report, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.JobID, report.Status, dryRun, string(data),
		report.StartedAt.Format(time.RFC3339Nano),
		report.FinishedAt.Format(time.RFC3339Nano),
	)
	return mapDBError(err)
}

// GetReport loads a stored report by job id.
func (r *JobRepo) GetReport(ctx context.Context, jobID string) (*domain.Report, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT report FROM migration_jobs WHERE id = ?`, jobID,
	).Scan(&data)
	if err != nil {
		return nil, mapDBError(err)
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %q: %w", jobID, err)
	}
	return &report, nil
}

// ListJobs returns job ids with status, most recent first.
func (r *JobRepo) ListJobs(ctx context.Context) ([]JobSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, dry_run, started_at
		FROM migration_jobs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var jobs []JobSummary
	for rows.Next() {
		var (
			s       JobSummary
			dryRun  int
			started string
		)
		if err := rows.Scan(&s.JobID, &s.Status, &dryRun, &started); err != nil {
			return nil, err
		}
		s.DryRun = dryRun != 0
		s.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		jobs = append(jobs, s)
	}
	return jobs, rows.Err()
}

// JobSummary is one row of the job history listing.
type JobSummary struct {
	JobID     string
	Status    string
	DryRun    bool
	StartedAt time.Time
}
