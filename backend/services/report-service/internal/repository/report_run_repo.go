package repository

import (
	"context"
	"database/sql"

	"fcreport/backend/services/report-service/internal/models"
)

const defaultListLimit = 50

// ReportRunRepository persists the audit log of generated reports.
type ReportRunRepository struct {
	db *sql.DB
}

// NewReportRunRepository returns repository.
func NewReportRunRepository(db *sql.DB) *ReportRunRepository {
	return &ReportRunRepository{db: db}
}

// EnsureSchema creates the report_runs table when it is missing.
func (r *ReportRunRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS report_runs (
			id               TEXT PRIMARY KEY,
			report_date      TEXT NOT NULL,
			file_name        TEXT NOT NULL,
			source_file      TEXT NOT NULL,
			total_sessions   INTEGER NOT NULL,
			total_energy_kwh DOUBLE PRECISION NOT NULL,
			pages            INTEGER NOT NULL,
			size_bytes       INTEGER NOT NULL,
			requested_by     TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Create inserts a run and fills in its creation time.
func (r *ReportRunRepository) Create(ctx context.Context, run *models.ReportRun) error {
	const query = `
		INSERT INTO report_runs (id, report_date, file_name, source_file, total_sessions, total_energy_kwh, pages, size_bytes, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		run.ID,
		run.ReportDate,
		run.FileName,
		run.SourceFile,
		run.TotalSessions,
		run.TotalEnergyKWh,
		run.Pages,
		run.SizeBytes,
		run.RequestedBy,
	).Scan(&run.CreatedAt)
}

// ListRecent returns the latest runs, newest first.
func (r *ReportRunRepository) ListRecent(ctx context.Context, limit int) ([]models.ReportRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	const query = `
		SELECT id, report_date, file_name, source_file, total_sessions, total_energy_kwh, pages, size_bytes, requested_by, created_at
		FROM report_runs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ReportRun
	for rows.Next() {
		var run models.ReportRun
		if err := rows.Scan(
			&run.ID,
			&run.ReportDate,
			&run.FileName,
			&run.SourceFile,
			&run.TotalSessions,
			&run.TotalEnergyKWh,
			&run.Pages,
			&run.SizeBytes,
			&run.RequestedBy,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
