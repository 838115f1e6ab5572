// Package chart turns category summaries into charts. A Figure is the single
// data-to-visual mapping; the interactive (go-echarts) and static (go-chart)
// targets both draw from it so titles, order, colours and labels stay in step.
package chart

import (
	"fmt"

	"fcreport/backend/services/report-service/internal/models"
)

// Kind selects the chart shape.
type Kind string

const (
	KindBar   Kind = "bar"
	KindDonut Kind = "donut"
)

// Chart titles.
const (
	DriverTitle = "Driver-wise Energy Usage (kWh)"
	HubTitle    = "Hub-wise Energy Distribution"
)

// DriverColor fills every driver bar.
const DriverColor = "#2563eb"

// HubPalette colours donut slices in rank order.
var HubPalette = []string{
	"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
}

// Item is one drawable datum of a figure, listed in rank order.
type Item struct {
	Label     string
	Value     float64
	ValueText string
	Percent   float64
	Color     string
	Others    bool
}

// PercentText renders the share of the figure total, e.g. "45.5%".
func (i Item) PercentText() string {
	return fmt.Sprintf("%.1f%%", i.Percent)
}

// Figure is a renderer-independent chart description.
type Figure struct {
	ID    string
	Kind  Kind
	Title string
	Unit  string
	Total float64
	Items []Item
}

// Empty reports whether there is nothing positive to draw.
func (f Figure) Empty() bool {
	return len(f.Items) == 0 || f.Total <= 0
}

// DriverFigure maps the driver summary onto a horizontal bar chart.
func DriverFigure(s models.CategorySummary) Figure {
	return BuildFigure("driver-energy", KindBar, DriverTitle, s, []string{DriverColor})
}

// HubFigure maps the hub summary onto a donut chart.
func HubFigure(s models.CategorySummary) Figure {
	return BuildFigure("hub-energy", KindDonut, HubTitle, s, HubPalette)
}

func roundForLabel(v float64) float64 {
	return models.Round2(v)
}

// BuildFigure applies the shared mapping: rank order kept, values rounded to two
// decimals for labels, percentages taken against the summary total and colours
// assigned from palette by rank.
func BuildFigure(id string, kind Kind, title string, s models.CategorySummary, palette []string) Figure {
	total := s.Total()
	fig := Figure{ID: id, Kind: kind, Title: title, Unit: "kWh", Total: total}
	for i, e := range s.Entries {
		item := Item{
			Label:     e.Name,
			Value:     e.EnergyKWh,
			ValueText: models.FormatKWh(e.EnergyKWh),
			Color:     palette[i%len(palette)],
			Others:    e.Others,
		}
		if total > 0 {
			item.Percent = e.EnergyKWh / total * 100
		}
		fig.Items = append(fig.Items, item)
	}
	return fig
}
