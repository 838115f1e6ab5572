package pdf

import (
	"strings"
	"time"

	"fcreport/backend/services/report-service/internal/models"
)

// TimestampLayout renders detail table timestamps as day-month hour:minute.
const TimestampLayout = "02-01 15:04"

// Headers of the detail table, in column order.
var Headers = []string{
	"Hub", "Session ID", "Driver", "VIN", "kWh", "Duration", "Status", "SOC In", "End SOC", "Start", "End",
}

// referenceWidths are scaled down to the printable width.
var referenceWidths = []float64{50, 50, 60, 85, 35, 45, 55, 45, 45, 60, 60}

const (
	headerFontSize = 8.0
	headerLeading  = 10.0
	cellFontSize   = 7.2
	cellLeading    = 9.0
	padX           = 5.0
	padY           = 4.0
	gridWidth      = 0.35
)

// Row renders one session as detail table cells.
func Row(s models.Session, placeholder string) []string {
	energy := ""
	if s.EnergyRaw != "" {
		energy = models.FormatKWh(s.EnergyKWh)
	}
	return []string{
		s.HubName,
		s.SessionID,
		s.DriverName,
		s.VIN,
		energy,
		s.Duration,
		s.Status,
		s.SOCStart,
		s.SOCEnd,
		formatTimestamp(s.StartTime, placeholder),
		formatTimestamp(s.EndTime, placeholder),
	}
}

func formatTimestamp(t *time.Time, placeholder string) string {
	if t == nil {
		return placeholder
	}
	return t.Format(TimestampLayout)
}

func (a *assembler) columnWidths() []float64 {
	var ref float64
	for _, w := range referenceWidths {
		ref += w
	}
	scale := (a.pageW - 2*margin) / ref
	if scale > 1 {
		scale = 1
	}
	widths := make([]float64, len(referenceWidths))
	for i, w := range referenceWidths {
		widths[i] = w * scale
	}
	return widths
}

// sessionTable draws the heading and one row per session in slice order,
// repeating the header row on each new page. It returns the number of body rows.
func (a *assembler) sessionTable(sessions []models.Session) int {
	a.text(black)
	a.pdf.SetFont("Helvetica", "B", 14)
	a.pdf.CellFormat(0, 18, a.tr("Session Details"), "", 1, "L", false, 0, "")
	a.pdf.Ln(8)

	widths := a.columnWidths()
	a.headerRow(widths)

	rows := 0
	for _, s := range sessions {
		cells := Row(s, a.placeholder)
		a.pdf.SetFont("Helvetica", "", cellFontSize)
		lines := a.wrap(cells, widths)
		h := rowHeight(lines, cellLeading)
		if a.pdf.GetY()+h > a.pageH-margin {
			a.pdf.AddPage()
			a.headerRow(widths)
			a.pdf.SetFont("Helvetica", "", cellFontSize)
		}
		a.text(black)
		a.drawRow(widths, lines, cellLeading, h, "L", false)
		rows++
	}
	return rows
}

func (a *assembler) headerRow(widths []float64) {
	a.pdf.SetFont("Helvetica", "B", headerFontSize)
	lines := a.wrap(Headers, widths)
	h := rowHeight(lines, headerLeading)
	a.fill(bannerColor)
	a.text(white)
	a.drawRow(widths, lines, headerLeading, h, "C", true)
}

// wrap translates each cell to the core font code page and breaks it into
// lines that fit the column.
func (a *assembler) wrap(cells []string, widths []float64) [][]string {
	out := make([][]string, len(cells))
	for i, c := range cells {
		out[i] = a.splitCell(a.tr(c), widths[i]-2*padX-2*a.pdf.GetCellMargin())
	}
	return out
}

// splitCell breaks single-byte text into lines no wider than w. Lines break
// at spaces; a word wider than w is cut wherever it overflows.
func (a *assembler) splitCell(txt string, w float64) []string {
	var lines []string
	for _, para := range strings.Split(txt, "\n") {
		line := ""
		for _, word := range strings.Split(para, " ") {
			if word == "" {
				continue
			}
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if a.pdf.GetStringWidth(candidate) <= w {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for len(word) > 1 && a.pdf.GetStringWidth(word) > w {
				n := a.fitPrefix(word, w)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// fitPrefix returns the length of the longest prefix of s narrower than w,
// never less than one byte.
func (a *assembler) fitPrefix(s string, w float64) int {
	n := 1
	for n < len(s) && a.pdf.GetStringWidth(s[:n+1]) <= w {
		n++
	}
	return n
}

func rowHeight(lines [][]string, leading float64) float64 {
	n := 1
	for _, l := range lines {
		if len(l) > n {
			n = len(l)
		}
	}
	return float64(n)*leading + 2*padY
}

// drawRow draws gridded cells at the cursor with vertically centred text and
// moves the cursor below the row.
func (a *assembler) drawRow(widths []float64, lines [][]string, leading, h float64, align string, filled bool) {
	x, y := margin, a.pdf.GetY()
	a.stroke(gridColor)
	a.pdf.SetLineWidth(gridWidth)

	style := "D"
	if filled {
		style = "FD"
	}
	for i, w := range widths {
		a.pdf.Rect(x, y, w, h, style)
		top := y + (h-float64(len(lines[i]))*leading)/2
		for j, line := range lines[i] {
			a.pdf.SetXY(x+padX, top+float64(j)*leading)
			a.pdf.CellFormat(w-2*padX, leading, line, "", 0, align, false, 0, "")
		}
		x += w
	}
	a.pdf.SetXY(margin, y+h)
}
