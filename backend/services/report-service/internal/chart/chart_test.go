package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fcreport/backend/services/report-service/internal/models"
)

func hubSummary() models.CategorySummary {
	return models.CategorySummary{
		Key:        "hub",
		Limit:      6,
		Categories: 2,
		Entries: []models.CategoryEntry{
			{Name: "Hub A", EnergyKWh: 70},
			{Name: "Hub B", EnergyKWh: 30},
		},
	}
}

func driverSummary() models.CategorySummary {
	return models.CategorySummary{
		Key:        "driver",
		Limit:      2,
		Categories: 3,
		Entries: []models.CategoryEntry{
			{Name: "D1", EnergyKWh: 50.5},
			{Name: "D2", EnergyKWh: 30.25},
			{Name: models.OthersLabel, EnergyKWh: 19.25, Others: true},
		},
	}
}

func TestBuildFigureKeepsRankOrderAndShares(t *testing.T) {
	fig := HubFigure(hubSummary())

	assert.Equal(t, KindDonut, fig.Kind)
	assert.Equal(t, HubTitle, fig.Title)
	assert.InDelta(t, 100, fig.Total, 1e-9)
	require.Len(t, fig.Items, 2)
	assert.Equal(t, "Hub A", fig.Items[0].Label)
	assert.InDelta(t, 70, fig.Items[0].Percent, 1e-9)
	assert.Equal(t, "70.0%", fig.Items[0].PercentText())
	assert.Equal(t, HubPalette[0], fig.Items[0].Color)
	assert.Equal(t, HubPalette[1], fig.Items[1].Color)

	drivers := DriverFigure(driverSummary())
	assert.Equal(t, KindBar, drivers.Kind)
	assert.Equal(t, "50.5", drivers.Items[0].ValueText)
	assert.Equal(t, models.OthersLabel, drivers.Items[2].Label)
	for _, it := range drivers.Items {
		assert.Equal(t, DriverColor, it.Color)
	}
}

func TestBuildFigureCarriesOthersFlag(t *testing.T) {
	s := models.CategorySummary{
		Key:   "hub",
		Limit: 1,
		Entries: []models.CategoryEntry{
			{Name: models.OthersLabel, EnergyKWh: 60},
			{Name: models.OthersLabel, EnergyKWh: 40, Others: true},
		},
	}
	fig := HubFigure(s)

	require.Len(t, fig.Items, 2)
	assert.False(t, fig.Items[0].Others, "a hub really named Others is not the remainder")
	assert.True(t, fig.Items[1].Others)
}

func TestBuildFigureZeroTotal(t *testing.T) {
	fig := HubFigure(models.CategorySummary{Entries: []models.CategoryEntry{{Name: "Hub A"}}})

	assert.True(t, fig.Empty())
	assert.Zero(t, fig.Items[0].Percent)
	assert.True(t, HubFigure(models.CategorySummary{}).Empty())
}

func TestRenderPageContainsBothCharts(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPage(&buf, "FC Daily Charging Report 2024-01-15",
		DriverFigure(driverSummary()), HubFigure(hubSummary()))
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "FC Daily Charging Report 2024-01-15")
	assert.Contains(t, html, DriverTitle)
	assert.Contains(t, html, HubTitle)
	assert.Contains(t, html, "Hub A")
	assert.Contains(t, html, "driver-energy")
	assert.Contains(t, html, "hub-energy")
}

func TestRenderPageRejectsUnknownKind(t *testing.T) {
	err := RenderPage(&bytes.Buffer{}, "x", Figure{Kind: "scatter"})
	assert.Error(t, err)
}

func TestRenderPNG(t *testing.T) {
	for _, fig := range []Figure{
		DriverFigure(driverSummary()),
		HubFigure(hubSummary()),
		HubFigure(models.CategorySummary{}),
	} {
		t.Run(fig.ID+"/"+strings.ToLower(string(fig.Kind)), func(t *testing.T) {
			data, err := RenderPNG(fig)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, StaticWidth, img.Bounds().Dx())
			assert.Equal(t, StaticHeight, img.Bounds().Dy())
		})
	}
}

func TestRenderPNGIsDeterministic(t *testing.T) {
	fig := DriverFigure(driverSummary())
	first, err := RenderPNG(fig)
	require.NoError(t, err)
	second, err := RenderPNG(fig)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
