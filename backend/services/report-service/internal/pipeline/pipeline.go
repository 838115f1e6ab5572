// Package pipeline runs a report request end to end: load, filter, aggregate,
// render and assemble. It holds no state between calls.
package pipeline

import (
	"fmt"
	"io"

	"fcreport/backend/services/report-service/internal/aggregate"
	"fcreport/backend/services/report-service/internal/chart"
	"fcreport/backend/services/report-service/internal/ingest"
	"fcreport/backend/services/report-service/internal/models"
	"fcreport/backend/services/report-service/internal/pdf"
)

// Config collects the tuning of every stage.
type Config struct {
	Ingest    ingest.Options
	Aggregate aggregate.Options
	PDF       pdf.Options
}

// Request is one report request. An empty Date selects the first date in the file.
type Request struct {
	FileBytes []byte
	Format    ingest.Format
	Date      string
}

// Result carries what each stage produced. Document is set by Generate only.
type Result struct {
	Date     string
	Dates    []string
	Rows     int
	Warnings []models.Warning
	Slice    models.DailySlice
	Summary  aggregate.Summary
	Document *pdf.Document
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	cfg Config
}

func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Load parses the upload without selecting a date.
func (p *Pipeline) Load(data []byte, format ingest.Format) (*ingest.Table, error) {
	return ingest.LoadBytes(data, format, p.cfg.Ingest)
}

// Summarize stops after aggregation.
func (p *Pipeline) Summarize(req Request) (*Result, error) {
	table, err := p.Load(req.FileBytes, req.Format)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date == "" {
		date = firstDate(table)
	}
	slice, err := ingest.Filter(table, date)
	if err != nil {
		return nil, err
	}

	return &Result{
		Date:     date,
		Dates:    table.Dates(),
		Rows:     len(table.Sessions),
		Warnings: table.Warnings,
		Slice:    slice,
		Summary:  aggregate.Summarize(slice, p.cfg.Aggregate),
	}, nil
}

// Figures maps a summary onto the driver and hub figures, in page order.
func Figures(s aggregate.Summary) []chart.Figure {
	return []chart.Figure{chart.DriverFigure(s.Drivers), chart.HubFigure(s.Hubs)}
}

// Charts writes the interactive chart page for the request.
func (p *Pipeline) Charts(w io.Writer, req Request) (*Result, error) {
	res, err := p.Summarize(req)
	if err != nil {
		return nil, err
	}
	title := pdf.ReportTitle + " " + res.Date
	if err := chart.RenderPage(w, title, Figures(res.Summary)...); err != nil {
		return nil, fmt.Errorf("pipeline: charts: %w", err)
	}
	return res, nil
}

// Generate runs every stage and returns the assembled document.
func (p *Pipeline) Generate(req Request) (*Result, error) {
	res, err := p.Summarize(req)
	if err != nil {
		return nil, err
	}

	figs := Figures(res.Summary)
	images := make([][]byte, len(figs))
	for i, fig := range figs {
		img, err := chart.RenderPNG(fig)
		if err != nil {
			return nil, fmt.Errorf("pipeline: static chart: %w", err)
		}
		images[i] = img
	}

	doc, err := pdf.Assemble(pdf.Input{
		Summary:     res.Summary,
		Slice:       res.Slice,
		DriverChart: images[0],
		HubChart:    images[1],
	}, p.cfg.PDF)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	res.Document = doc
	return res, nil
}

func firstDate(t *ingest.Table) string {
	dates := t.Dates()
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}
