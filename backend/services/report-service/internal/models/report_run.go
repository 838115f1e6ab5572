package models

import "time"

// ReportRun is an audit entry for a generated PDF report.
type ReportRun struct {
	ID             string    `db:"id" json:"id"`
	ReportDate     string    `db:"report_date" json:"report_date"`
	FileName       string    `db:"file_name" json:"file_name"`
	SourceFile     string    `db:"source_file" json:"source_file"`
	TotalSessions  int       `db:"total_sessions" json:"total_sessions"`
	TotalEnergyKWh float64   `db:"total_energy_kwh" json:"total_energy_kwh"`
	Pages          int       `db:"pages" json:"pages"`
	SizeBytes      int       `db:"size_bytes" json:"size_bytes"`
	RequestedBy    string    `db:"requested_by" json:"requested_by,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
