package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// timestampParser tries the configured layouts first, then Excel serial
// numbers for spreadsheet input, then dateparse's format detection.
// Ambiguous slash dates are read month first.
type timestampParser struct {
	layouts    []string
	loc        *time.Location
	excelDates bool
}

func newTimestampParser(layouts []string, loc *time.Location, excelDates bool) *timestampParser {
	if loc == nil {
		loc = time.UTC
	}
	return &timestampParser{layouts: layouts, loc: loc, excelDates: excelDates}
}

// parse returns nil for empty or unparseable values.
func (p *timestampParser) parse(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			return &t
		}
	}

	// Bare numbers are never read as epochs or compact dates.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if !p.excelDates || serial <= 0 {
			return nil
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, p.loc)
		return &local
	}

	t, err := dateparse.ParseIn(raw, p.loc, dateparse.PreferMonthFirst(true))
	if err != nil {
		return nil
	}
	return &t
}
