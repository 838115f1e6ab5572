package aggregate

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"fcreport/backend/services/report-service/internal/models"
)

// Default ranking limits for the two category summaries.
const (
	DefaultTopDrivers = 8
	DefaultTopHubs    = 6
)

// Category keys.
const (
	KeyDriver = "driver"
	KeyHub    = "hub"
)

// Options sets the top-N limits; zero values fall back to the defaults.
type Options struct {
	TopDrivers int
	TopHubs    int
}

// Summary is everything a daily report derives from its slice.
type Summary struct {
	KPIs    models.KPIs            `json:"kpis"`
	Drivers models.CategorySummary `json:"drivers"`
	Hubs    models.CategorySummary `json:"hubs"`
}

// Summarize computes KPIs and the driver and hub summaries of a daily slice.
func Summarize(slice models.DailySlice, opts Options) Summary {
	if opts.TopDrivers <= 0 {
		opts.TopDrivers = DefaultTopDrivers
	}
	if opts.TopHubs <= 0 {
		opts.TopHubs = DefaultTopHubs
	}

	total := lo.SumBy(slice.Sessions, func(s models.Session) float64 { return s.EnergyKWh })

	return Summary{
		KPIs: models.KPIs{
			Date:           slice.Date,
			TotalSessions:  slice.Len(),
			TotalEnergyKWh: models.Round2(total),
		},
		Drivers: Rank(KeyDriver, slice.Sessions, func(s models.Session) string { return s.DriverName }, opts.TopDrivers),
		Hubs:    Rank(KeyHub, slice.Sessions, func(s models.Session) string { return s.HubName }, opts.TopHubs),
	}
}

// Rank groups sessions by key, sums energy per group and keeps the top n groups,
// folding the remainder into an Others entry when it is positive. Groups are visited
// in ascending name order and sorted stably, so equal sums keep name order.
func Rank(key string, sessions []models.Session, keyFn func(models.Session) string, n int) models.CategorySummary {
	sums := make(map[string]float64)
	for _, s := range sessions {
		name := strings.TrimSpace(keyFn(s))
		if name == "" {
			name = models.UnknownLabel
		}
		sums[name] += s.EnergyKWh
	}

	names := lo.Keys(sums)
	sort.Strings(names)
	entries := lo.Map(names, func(name string, _ int) models.CategoryEntry {
		return models.CategoryEntry{Name: name, EnergyKWh: sums[name]}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EnergyKWh > entries[j].EnergyKWh
	})

	summary := models.CategorySummary{Key: key, Limit: n, Categories: len(entries)}
	if len(entries) <= n {
		summary.Entries = entries
		return summary
	}

	summary.Entries = append([]models.CategoryEntry{}, entries[:n]...)
	rest := lo.SumBy(entries[n:], func(e models.CategoryEntry) float64 { return e.EnergyKWh })
	if rest > 0 {
		summary.Entries = append(summary.Entries, models.CategoryEntry{
			Name:      models.OthersLabel,
			EnergyKWh: rest,
			Others:    true,
		})
	}
	return summary
}
