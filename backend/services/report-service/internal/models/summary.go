package models

import "github.com/shopspring/decimal"

// OthersLabel names the synthetic entry that collects categories beyond the top N.
const OthersLabel = "Others"

// UnknownLabel groups sessions with an empty category key.
const UnknownLabel = "Unknown"

// CategoryEntry is one ranked row of a category summary.
type CategoryEntry struct {
	Name      string  `json:"name"`
	EnergyKWh float64 `json:"energy_kwh"`
	Others    bool    `json:"others,omitempty"`
}

// CategorySummary is a ranked top-N + Others aggregation of energy by category.
type CategorySummary struct {
	Key        string          `json:"key"`
	Limit      int             `json:"limit"`
	Categories int             `json:"categories"`
	Entries    []CategoryEntry `json:"entries"`
}

// Total returns the unrounded sum of all entries.
func (c CategorySummary) Total() float64 {
	var total float64
	for _, e := range c.Entries {
		total += e.EnergyKWh
	}
	return total
}

// HasOthers reports whether the summary carries the synthetic Others entry.
func (c CategorySummary) HasOthers() bool {
	return len(c.Entries) > 0 && c.Entries[len(c.Entries)-1].Others
}

// KPIs are the headline figures of a daily report.
type KPIs struct {
	Date           string  `json:"date"`
	TotalSessions  int     `json:"total_sessions"`
	TotalEnergyKWh float64 `json:"total_energy_kwh"`
}

// Round2 rounds v to two decimal places for display.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatKWh renders v rounded to two decimals without trailing zeros, e.g. 100 or 50.5.
func FormatKWh(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
