package ingest

import (
	"fmt"
	"strings"
)

// FormatError reports input that cannot be read as a table at all.
type FormatError struct {
	Format Format
	Err    error
}

func (e *FormatError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("ingest: unreadable table: %v", e.Err)
	}
	return fmt.Sprintf("ingest: unreadable %s table: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// MissingColumnError names required columns absent from the header row.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("ingest: missing required columns: %s", strings.Join(e.Columns, ", "))
}

// EmptySliceError is returned when no session matches the selected report date.
type EmptySliceError struct {
	Date string
}

func (e *EmptySliceError) Error() string {
	return fmt.Sprintf("no data available for selected date %s", e.Date)
}
