package ingest

import (
	"fcreport/backend/services/report-service/internal/models"
)

// Filter selects the sessions of one report date. The result is a deep copy of the
// matching rows with DriverName populated, so later changes never reach the table.
func Filter(table *Table, date string) (models.DailySlice, error) {
	if table == nil {
		return models.DailySlice{}, &EmptySliceError{Date: date}
	}
	return filterSessions(table.Sessions, date)
}

// FilterSlice re-applies the date filter to an existing slice.
func FilterSlice(slice models.DailySlice, date string) (models.DailySlice, error) {
	return filterSessions(slice.Sessions, date)
}

func filterSessions(sessions []models.Session, date string) (models.DailySlice, error) {
	out := models.DailySlice{Date: date}
	for _, s := range sessions {
		if s.Date != date || date == "" {
			continue
		}
		cp := copySession(s)
		cp.DriverName = cp.DeviceID
		out.Sessions = append(out.Sessions, cp)
	}
	if len(out.Sessions) == 0 {
		return models.DailySlice{}, &EmptySliceError{Date: date}
	}
	return out, nil
}

func copySession(s models.Session) models.Session {
	if s.StartTime != nil {
		t := *s.StartTime
		s.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		s.EndTime = &t
	}
	return s
}
