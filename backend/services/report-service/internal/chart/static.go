package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Static image size in pixels.
const (
	StaticWidth  = 1000
	StaticHeight = 520
)

var (
	colorText = drawing.Color{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	colorAxis = drawing.Color{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	colorMute = drawing.Color{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// RenderPNG draws fig as a PNG image. A figure with nothing to draw renders a
// titled placeholder so the report layout does not shift.
func RenderPNG(fig Figure) ([]byte, error) {
	if fig.Empty() {
		return renderPlaceholder(fig, StaticWidth, StaticHeight)
	}
	switch fig.Kind {
	case KindBar:
		return renderBars(fig, StaticWidth, StaticHeight)
	case KindDonut:
		return renderDonut(fig, StaticWidth, StaticHeight)
	default:
		return nil, fmt.Errorf("chart: unknown kind %q", fig.Kind)
	}
}

func renderDonut(fig Figure, width, height int) ([]byte, error) {
	values := make([]chart.Value, 0, len(fig.Items))
	for _, it := range fig.Items {
		if it.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: it.Value,
			Label: it.Label + " " + it.PercentText(),
			Style: chart.Style{
				FillColor:   hexColor(it.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontSize:    11,
				FontColor:   colorText,
			},
		})
	}

	donut := chart.DonutChart{
		Title:      fig.Title,
		TitleStyle: chart.Style{FontSize: 16, FontColor: colorText},
		Width:      width,
		Height:     height,
		Values:     values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render %s: %w", fig.ID, err)
	}
	return buf.Bytes(), nil
}

// renderBars draws a horizontal bar chart with the leader at the top and the
// value label right of each bar.
func renderBars(fig Figure, width, height int) ([]byte, error) {
	r, err := newCanvas(fig, width, height)
	if err != nil {
		return nil, err
	}

	left, right := 200.0, float64(width)-90
	top, bottom := 70.0, float64(height)-30

	var maxVal float64
	for _, it := range fig.Items {
		if it.Value > maxVal {
			maxVal = it.Value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	band := (bottom - top) / float64(len(fig.Items))
	barH := band * 0.7
	r.SetFontSize(12)

	for i, it := range fig.Items {
		y0 := top + float64(i)*band + (band-barH)/2
		mid := y0 + barH/2

		label := truncate(it.Label, 28)
		box := r.MeasureText(label)
		r.SetFontColor(colorText)
		r.Text(label, int(left)-10-box.Width(), int(mid)+box.Height()/2)

		w := (right - left) * it.Value / maxVal
		if w > 0 {
			r.SetFillColor(hexColor(it.Color))
			r.SetStrokeColor(hexColor(it.Color))
			r.SetStrokeWidth(0)
			rect(r, left, y0, left+w, y0+barH)
			r.Fill()
		}

		vbox := r.MeasureText(it.ValueText)
		r.Text(it.ValueText, int(left+w)+6, int(mid)+vbox.Height()/2)
	}

	r.SetStrokeColor(colorAxis)
	r.SetStrokeWidth(1)
	r.MoveTo(int(left), int(top))
	r.LineTo(int(left), int(bottom))
	r.Stroke()

	return save(fig, r)
}

func renderPlaceholder(fig Figure, width, height int) ([]byte, error) {
	r, err := newCanvas(fig, width, height)
	if err != nil {
		return nil, err
	}
	msg := "No energy recorded for this date"
	r.SetFontSize(14)
	r.SetFontColor(colorMute)
	box := r.MeasureText(msg)
	r.Text(msg, (width-box.Width())/2, height/2)
	return save(fig, r)
}

// newCanvas returns a white PNG renderer with the figure title drawn.
func newCanvas(fig Figure, width, height int) (chart.Renderer, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("chart: canvas %s: %w", fig.ID, err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("chart: font: %w", err)
	}
	r.SetFont(font)

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorWhite)
	rect(r, 0, 0, float64(width), float64(height))
	r.Fill()

	r.SetFontSize(16)
	r.SetFontColor(colorText)
	box := r.MeasureText(fig.Title)
	r.Text(fig.Title, (width-box.Width())/2, 36)
	return r, nil
}

func rect(r chart.Renderer, x0, y0, x1, y1 float64) {
	r.MoveTo(int(x0), int(y0))
	r.LineTo(int(x1), int(y0))
	r.LineTo(int(x1), int(y1))
	r.LineTo(int(x0), int(y1))
	r.Close()
}

func save(fig Figure, r chart.Renderer) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("chart: render %s: %w", fig.ID, err)
	}
	return buf.Bytes(), nil
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
