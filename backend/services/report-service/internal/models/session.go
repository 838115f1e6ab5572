package models

import "time"

// DateLayout is the calendar date format used for report dates.
const DateLayout = "2006-01-02"

// Session represents one charging session row from an uploaded export.
type Session struct {
	Row        int        `json:"row"`
	HubName    string     `json:"hub_name"`
	SessionID  string     `json:"session_id"`
	DeviceID   string     `json:"device_id"`
	DriverName string     `json:"driver_name,omitempty"`
	VIN        string     `json:"vin"`
	EnergyKWh  float64    `json:"energy_kwh"`
	EnergyRaw  string     `json:"energy_raw"`
	Duration   string     `json:"duration"`
	Status     string     `json:"status"`
	SOCStart   string     `json:"soc_in"`
	SOCEnd     string     `json:"soc_end"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Date       string     `json:"date,omitempty"`
}

// DailySlice holds the sessions of a single report date in upload order.
type DailySlice struct {
	Date     string    `json:"date"`
	Sessions []Session `json:"sessions"`
}

// Len returns the number of sessions in the slice.
func (d DailySlice) Len() int {
	return len(d.Sessions)
}

// Warning records a value that was tolerated rather than rejected.
type Warning struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}
