package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fcreport/backend/services/report-service/internal/ingest"
	"fcreport/backend/services/report-service/internal/models"
	"fcreport/backend/services/report-service/internal/pipeline"
)

var (
	// ErrHistoryDisabled is returned when no report run repository is configured.
	ErrHistoryDisabled = errors.New("report: history requires a database")
	// ErrEmptyUpload rejects zero-byte files.
	ErrEmptyUpload = errors.New("report: uploaded file is empty")
)

// RunRepository stores the audit log of generated reports.
type RunRepository interface {
	Create(ctx context.Context, run *models.ReportRun) error
	ListRecent(ctx context.Context, limit int) ([]models.ReportRun, error)
}

type requesterKey struct{}

// WithRequester records the authenticated caller on ctx.
func WithRequester(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, requesterKey{}, subject)
}

// RequesterFromContext returns the caller recorded by WithRequester.
func RequesterFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requesterKey{}).(string)
	return v, ok && v != ""
}

// ReportService holds uploads between requests and runs the report pipeline on them.
type ReportService struct {
	pipeline *pipeline.Pipeline
	uploads  UploadStore
	runs     RunRepository
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewReportService builds ReportService. runs may be nil, which disables history.
func NewReportService(p *pipeline.Pipeline, uploads UploadStore, runs RunRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		pipeline: p,
		uploads:  uploads,
		runs:     runs,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Upload parses the file once to validate it and list its dates, then keeps it for later requests.
// formatHint overrides the extension of fileName when set.
func (s *ReportService) Upload(ctx context.Context, fileName, formatHint string, data []byte) (*models.Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	var (
		format ingest.Format
		err    error
	)
	if formatHint != "" {
		format, err = ingest.ParseFormat(formatHint)
	} else {
		format, err = ingest.DetectFormat(fileName)
	}
	if err != nil {
		return nil, err
	}

	table, err := s.pipeline.Load(data, format)
	if err != nil {
		return nil, err
	}

	for _, w := range table.Warnings {
		s.logger.Warn("value coerced",
			zap.String("file", fileName),
			zap.Int("row", w.Row),
			zap.String("column", w.Column),
			zap.String("value", w.Value),
			zap.String("reason", w.Message),
		)
	}

	upload := models.Upload{
		ID:        s.newID(),
		FileName:  fileName,
		Format:    string(format),
		Data:      data,
		Dates:     table.Dates(),
		Rows:      len(table.Sessions),
		Warnings:  table.Warnings,
		CreatedAt: s.now().UTC(),
	}
	if who, ok := RequesterFromContext(ctx); ok {
		upload.Owner = who
	}

	if err := s.uploads.Save(ctx, upload); err != nil {
		return nil, err
	}

	s.logger.Info("upload stored",
		zap.String("upload_id", upload.ID),
		zap.String("file", fileName),
		zap.Int("rows", upload.Rows),
		zap.Int("dates", len(upload.Dates)),
		zap.Int("warnings", len(upload.Warnings)),
	)
	return &upload, nil
}

// Get returns an upload visible to the caller.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Upload, error) {
	upload, err := s.uploads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upload.Owner != "" {
		if who, _ := RequesterFromContext(ctx); who != upload.Owner {
			return nil, models.ErrUploadNotFound
		}
	}
	return upload, nil
}

// Dates lists the distinct report dates of an upload.
func (s *ReportService) Dates(ctx context.Context, id string) ([]string, error) {
	upload, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return upload.Dates, nil
}

// Summary aggregates one date of an upload.
func (s *ReportService) Summary(ctx context.Context, id, date string) (*pipeline.Result, error) {
	upload, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Summarize(request(upload, date))
}

// Charts writes the interactive chart page for one date of an upload.
func (s *ReportService) Charts(ctx context.Context, w io.Writer, id, date string) (*pipeline.Result, error) {
	upload, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Charts(w, request(upload, date))
}

// Report generates the PDF for one date of an upload and records the run.
func (s *ReportService) Report(ctx context.Context, id, date string) (*pipeline.Result, error) {
	upload, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start := s.now()
	res, err := s.pipeline.Generate(request(upload, date))
	if err != nil {
		return nil, err
	}

	doc := res.Document
	s.logger.Info("report generated",
		zap.String("upload_id", id),
		zap.String("date", res.Date),
		zap.Int("sessions", res.Summary.KPIs.TotalSessions),
		zap.Int("pages", doc.Pages),
		zap.Int("bytes", len(doc.Bytes)),
		zap.Duration("took", s.now().Sub(start)),
	)

	if s.runs != nil {
		run := &models.ReportRun{
			ID:             s.newID(),
			ReportDate:     res.Date,
			FileName:       doc.FileName,
			SourceFile:     upload.FileName,
			TotalSessions:  res.Summary.KPIs.TotalSessions,
			TotalEnergyKWh: res.Summary.KPIs.TotalEnergyKWh,
			Pages:          doc.Pages,
			SizeBytes:      len(doc.Bytes),
		}
		run.RequestedBy, _ = RequesterFromContext(ctx)
		// Audit failures are logged only; the caller still gets the document.
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.Error("failed to record report run", zap.String("upload_id", id), zap.Error(err))
		}
	}
	return res, nil
}

// Delete discards an upload so the user can start over.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.uploads.Delete(ctx, id)
}

// History returns the latest report runs.
func (s *ReportService) History(ctx context.Context, limit int) ([]models.ReportRun, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runs.ListRecent(ctx, limit)
}

func request(u *models.Upload, date string) pipeline.Request {
	return pipeline.Request{FileBytes: u.Data, Format: ingest.Format(u.Format), Date: date}
}
