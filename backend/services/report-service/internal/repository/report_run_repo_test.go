package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fcreport/backend/services/report-service/internal/models"
)

var runColumns = []string{
	"id", "report_date", "file_name", "source_file", "total_sessions", "total_energy_kwh",
	"pages", "size_bytes", "requested_by", "created_at",
}

func newMock(t *testing.T) (*ReportRunRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewReportRunRepository(db), mock
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS report_runs").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	run := &models.ReportRun{
		ID:             "r1",
		ReportDate:     "2024-01-15",
		FileName:       "FC_Daily_Charging_Report_2024-01-15.pdf",
		SourceFile:     "sessions.csv",
		TotalSessions:  10,
		TotalEnergyKWh: 100,
		Pages:          2,
		SizeBytes:      2048,
		RequestedBy:    "ops",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO report_runs")).
		WithArgs("r1", "2024-01-15", run.FileName, "sessions.csv", 10, 100.0, 2, 2048, "ops").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	require.NoError(t, repo.Create(context.Background(), run))
	assert.Equal(t, created, run.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM report_runs")).
		WithArgs(defaultListLimit).
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow("r2", "2024-01-16", "b.pdf", "b.csv", 3, 12.5, 2, 900, "", created).
			AddRow("r1", "2024-01-15", "a.pdf", "a.csv", 10, 100.0, 2, 2048, "ops", created.Add(-time.Hour)))

	runs, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r2", runs[0].ID)
	assert.InDelta(t, 12.5, runs[0].TotalEnergyKWh, 1e-9)
	assert.Equal(t, "ops", runs[1].RequestedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentQueryError(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_runs")).WithArgs(5).WillReturnError(boom)

	_, err := repo.ListRecent(context.Background(), 5)
	assert.ErrorIs(t, err, boom)
}
