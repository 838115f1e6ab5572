package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"
)

// RenderPage writes an HTML page holding one interactive chart per figure.
func RenderPage(w io.Writer, title string, figs ...Figure) error {
	page := components.NewPage()
	page.PageTitle = title

	for _, fig := range figs {
		switch fig.Kind {
		case KindBar:
			page.AddCharts(interactiveBar(fig))
		case KindDonut:
			page.AddCharts(interactiveDonut(fig))
		default:
			return fmt.Errorf("chart: unknown kind %q", fig.Kind)
		}
	}
	return page.Render(w)
}

func interactiveBar(fig Figure) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: fig.ID,
			Width:   "100%",
			Height:  "520px",
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{Left: "180", Right: "60", Top: "60", Bottom: "40"}),
		charts.WithXAxisOpts(opts.XAxis{Name: fig.Unit, Type: "value"}),
	)

	// Category axes grow upwards, so feed the ranking bottom-up to show the leader on top.
	items := lo.Reverse(append([]Item{}, fig.Items...))
	labels := lo.Map(items, func(it Item, _ int) string { return it.Label })
	data := lo.Map(items, func(it Item, _ int) opts.BarData {
		return opts.BarData{
			Name:      it.Label,
			Value:     roundForLabel(it.Value),
			ItemStyle: &opts.ItemStyle{Color: it.Color},
		}
	})

	bar.SetXAxis(labels).
		AddSeries(fig.Unit, data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
		).
		XYReversal()
	return bar
}

func interactiveDonut(fig Figure) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: fig.ID,
			Width:   "100%",
			Height:  "520px",
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "horizontal", Bottom: "0"}),
	)

	data := lo.Map(fig.Items, func(it Item, _ int) opts.PieData {
		return opts.PieData{
			Name:      it.Label,
			Value:     roundForLabel(it.Value),
			ItemStyle: &opts.ItemStyle{Color: it.Color},
		}
	})

	pie.AddSeries(fig.Unit, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "72%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "inside", Formatter: "{d}%\n{b}"}),
	)
	return pie
}
