package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"fcreport/backend/services/report-service/internal/models"
)

// Column names expected in the export header after trimming.
const (
	ColStartTime = "Start Time"
	ColEndTime   = "End Time"
	ColDeviceID  = "Device ID"
	ColUsage     = "Usage (kWh)"
	ColHubName   = "Hub Name"
	ColSessionID = "Session ID"
	ColVIN       = "VIN NUMBER"
	ColDuration  = "Duration"
	ColStatus    = "Status"
	ColSOCIn     = "SOC In (%)"
	ColEndSOC    = "End SOC"
)

// RequiredColumns lists every column the mapping to models.Session reads.
var RequiredColumns = []string{
	ColStartTime, ColEndTime, ColDeviceID, ColUsage, ColHubName, ColSessionID,
	ColVIN, ColDuration, ColStatus, ColSOCIn, ColEndSOC,
}

// Options tunes value parsing.
type Options struct {
	Location         *time.Location
	TimestampLayouts []string
}

// Table is the normalized content of one upload.
type Table struct {
	Format   Format
	Sessions []models.Session
	Warnings []models.Warning
}

// Dates returns the distinct report dates present, sorted ascending.
func (t *Table) Dates() []string {
	dates := lo.Uniq(lo.FilterMap(t.Sessions, func(s models.Session, _ int) (string, bool) {
		return s.Date, s.Date != ""
	}))
	sort.Strings(dates)
	return dates
}

// LoadBytes is Load over an in-memory upload.
func LoadBytes(data []byte, format Format, opts Options) (*Table, error) {
	return Load(bytes.NewReader(data), format, opts)
}

// Load reads a CSV or XLSX export and maps it onto typed sessions.
func Load(r io.Reader, format Format, opts Options) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, &FormatError{Format: format, Err: fmt.Errorf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, &FormatError{Format: format, Err: err}
	}
	if len(rows) == 0 {
		return nil, &FormatError{Format: format, Err: errors.New("no header row")}
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	parser := newTimestampParser(opts.TimestampLayouts, opts.Location, format == FormatXLSX)
	table := &Table{Format: format}
	for i, rec := range rows[1:] {
		if blankRecord(rec) {
			continue
		}
		// Row numbers are 1-based data rows as shown in a spreadsheet, header excluded.
		session, warnings := mapRecord(i+1, rec, index, parser)
		table.Sessions = append(table.Sessions, session)
		table.Warnings = append(table.Warnings, warnings...)
	}
	return table, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	missing := lo.Filter(RequiredColumns, func(col string, _ int) bool {
		_, ok := index[col]
		return !ok
	})
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	return index, nil
}

func blankRecord(rec []string) bool {
	return lo.EveryBy(rec, func(v string) bool { return strings.TrimSpace(v) == "" })
}

func mapRecord(row int, rec []string, index map[string]int, parser *timestampParser) (models.Session, []models.Warning) {
	get := func(col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var warnings []models.Warning
	warn := func(col, value, msg string) {
		warnings = append(warnings, models.Warning{Row: row, Column: col, Value: value, Message: msg})
	}

	s := models.Session{
		Row:       row,
		HubName:   get(ColHubName),
		SessionID: get(ColSessionID),
		DeviceID:  get(ColDeviceID),
		VIN:       get(ColVIN),
		EnergyRaw: get(ColUsage),
		Duration:  get(ColDuration),
		Status:    get(ColStatus),
		SOCStart:  get(ColSOCIn),
		SOCEnd:    get(ColEndSOC),
	}

	if s.EnergyRaw != "" {
		v, err := strconv.ParseFloat(s.EnergyRaw, 64)
		switch {
		case err != nil:
			warn(ColUsage, s.EnergyRaw, "non-numeric energy counted as 0")
		case math.IsNaN(v) || math.IsInf(v, 0):
			warn(ColUsage, s.EnergyRaw, "non-finite energy counted as 0")
		default:
			s.EnergyKWh = v
		}
	}

	if raw := get(ColStartTime); raw != "" {
		if s.StartTime = parser.parse(raw); s.StartTime == nil {
			warn(ColStartTime, raw, "unparseable timestamp")
		}
	}
	if raw := get(ColEndTime); raw != "" {
		if s.EndTime = parser.parse(raw); s.EndTime == nil {
			warn(ColEndTime, raw, "unparseable timestamp")
		}
	}
	if s.StartTime != nil {
		s.Date = s.StartTime.Format(models.DateLayout)
	}
	if s.StartTime != nil && s.EndTime != nil && s.EndTime.Before(*s.StartTime) {
		warn(ColEndTime, s.EndTime.Format(time.RFC3339), "end time precedes start time")
	}
	return s, warnings
}
