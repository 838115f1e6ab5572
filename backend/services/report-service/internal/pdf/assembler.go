// Package pdf assembles the downloadable daily report.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"fcreport/backend/services/report-service/internal/aggregate"
	"fcreport/backend/services/report-service/internal/models"
)

const (
	ContentType        = "application/pdf"
	DefaultPlaceholder = "N/A"
	ReportTitle        = "FC Daily Charging Report"

	margin = 30.0
)

var (
	bannerColor = rgb{0x1f, 0x4e, 0x79}
	kpiFill     = rgb{0xf5, 0xf5, 0xf5}
	gridColor   = rgb{0x80, 0x80, 0x80}
	white       = rgb{0xff, 0xff, 0xff}
	black       = rgb{0, 0, 0}
)

type rgb struct{ r, g, b int }

// FileName returns the download name of the report for date.
func FileName(date string) string {
	return fmt.Sprintf("FC_Daily_Charging_Report_%s.pdf", date)
}

// Input is everything the assembler lays out.
type Input struct {
	Summary     aggregate.Summary
	Slice       models.DailySlice
	DriverChart []byte
	HubChart    []byte
}

// Options tunes the output. Zero values pick the defaults.
type Options struct {
	// Placeholder replaces timestamps that failed to parse.
	Placeholder string
	// CreatedAt is stamped into the document metadata; zero means now.
	CreatedAt time.Time
	// Uncompressed disables stream compression, which keeps page content greppable.
	Uncompressed bool
}

// Document is a finished report.
type Document struct {
	FileName    string
	ContentType string
	Bytes       []byte
	Pages       int
	DetailRows  int
}

type assembler struct {
	pdf         *fpdf.Fpdf
	tr          func(string) string
	placeholder string
	pageW       float64
	pageH       float64
}

// Assemble builds the report: page one carries the banner, the KPI strip and
// both charts; the session table starts on page two.
func Assemble(in Input, opts Options) (*Document, error) {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = time.Now()
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, margin)
	doc.SetCompression(!opts.Uncompressed)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(opts.CreatedAt)
	doc.SetModificationDate(opts.CreatedAt)
	doc.SetTitle(ReportTitle+" "+in.Slice.Date, true)
	doc.SetCreator("fcreport", true)

	pageW, pageH := doc.GetPageSize()
	a := &assembler{
		pdf:         doc,
		tr:          doc.UnicodeTranslatorFromDescriptor(""),
		placeholder: opts.Placeholder,
		pageW:       pageW,
		pageH:       pageH,
	}

	doc.AddPage()
	a.banner()
	a.kpiStrip(in.Summary.KPIs)
	a.image("driver", in.DriverChart)
	doc.Ln(12)
	a.image("hub", in.HubChart)

	doc.AddPage()
	rows := a.sessionTable(in.Slice.Sessions)

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf: assemble: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}

	return &Document{
		FileName:    FileName(in.Slice.Date),
		ContentType: ContentType,
		Bytes:       buf.Bytes(),
		Pages:       doc.PageCount(),
		DetailRows:  rows,
	}, nil
}

func (a *assembler) centerX(w float64) float64 {
	return (a.pageW - w) / 2
}

func (a *assembler) fill(c rgb)   { a.pdf.SetFillColor(c.r, c.g, c.b) }
func (a *assembler) text(c rgb)   { a.pdf.SetTextColor(c.r, c.g, c.b) }
func (a *assembler) stroke(c rgb) { a.pdf.SetDrawColor(c.r, c.g, c.b) }

func (a *assembler) banner() {
	const w, h = 450.0, 40.0
	a.fill(bannerColor)
	a.text(white)
	a.pdf.SetFont("Helvetica", "", 18)
	a.pdf.SetX(a.centerX(w))
	a.pdf.CellFormat(w, h, a.tr(ReportTitle), "", 1, "CM", true, 0, "")
	a.pdf.Ln(8)
}

func (a *assembler) kpiStrip(k models.KPIs) {
	const w, h = 150.0, 20.0
	cells := []string{
		"Date: " + k.Date,
		fmt.Sprintf("Total Sessions: %d", k.TotalSessions),
		"Total Energy: " + models.FormatKWh(k.TotalEnergyKWh) + " kWh",
	}

	x0, y0 := a.centerX(w*3), a.pdf.GetY()
	a.fill(kpiFill)
	a.text(black)
	a.pdf.SetFont("Helvetica", "B", 10)
	a.pdf.SetXY(x0, y0)
	for _, c := range cells {
		a.pdf.CellFormat(w, h, a.tr(c), "", 0, "CM", true, 0, "")
	}

	a.stroke(gridColor)
	a.pdf.SetLineWidth(0.6)
	a.pdf.Rect(x0, y0, w*3, h, "D")
	a.pdf.SetXY(margin, y0+h)
	a.pdf.Ln(16)
}

func (a *assembler) image(name string, data []byte) {
	const w, h = 500.0, 260.0
	x, y := a.centerX(w), a.pdf.GetY()
	if len(data) == 0 {
		a.pdf.SetY(y + h)
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	a.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	a.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	a.pdf.SetY(y + h)
}
