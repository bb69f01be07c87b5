package app

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"gapdash/domain/gapminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewOf(n int) gapminder.View {
	records := make([]gapminder.Record, n)
	for i := range records {
		records[i] = gapminder.Record{
			Country:   fmt.Sprintf("C%02d", i),
			Continent: "Africa",
			Year:      2007,
			LifeExp:   40 + float64(i),
			Pop:       int64(1000 * (i + 1)),
			GDPPercap: float64(100 * (i + 1)),
		}
	}
	return gapminder.View{Continent: "Africa", Records: records}
}

func TestHistogram_EqualWidthBins(t *testing.T) {
	centers, counts, width := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)

	require.Len(t, centers, 10)
	require.Len(t, counts, 10)
	assert.InDelta(t, 1.0, width, 1e-9)
	assert.InDelta(t, 0.5, centers[0], 1e-9)
	assert.InDelta(t, 9.5, centers[9], 1e-9)
	assert.Equal(t, 1.0, counts[0])
	assert.Equal(t, 2.0, counts[9], "maximum falls in the last bin")

	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 11.0, total)
}

func TestHistogram_DegenerateInputs(t *testing.T) {
	centers, counts, width := Histogram(nil, 10)
	assert.Empty(t, centers)
	assert.Empty(t, counts)
	assert.Zero(t, width)

	centers, counts, _ = Histogram([]float64{72, 72, 72}, 10)
	require.Len(t, centers, 10)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 3.0, total)
}

func TestHistogram_SkipsNonFinite(t *testing.T) {
	centers, counts, width := Histogram([]float64{40, math.NaN(), 80, math.Inf(1), math.Inf(-1)}, 4)
	require.Len(t, centers, 4)
	assert.InDelta(t, 10.0, width, 1e-9)
	assert.Equal(t, []float64{1, 0, 0, 1}, counts)

	centers, counts, width = Histogram([]float64{math.NaN(), math.Inf(1)}, 10)
	assert.Empty(t, centers)
	assert.Empty(t, counts)
	assert.Zero(t, width)
}

func TestScatter_OneTracePerCountry(t *testing.T) {
	fig := NewChartService().Scatter(viewOf(4))

	require.Len(t, fig.Data, 4)
	assert.Equal(t, "GDP vs Life Expectancy in Africa", fig.Layout.Title)
	assert.Equal(t, "log", fig.Layout.XAxis.Type)
	assert.Equal(t, "C00", fig.Data[0].Name)
	assert.Equal(t, "area", fig.Data[0].Marker.SizeMode)
	assert.InDelta(t, 2*4000.0/3600.0, fig.Data[0].Marker.SizeRef, 1e-9)
}

func TestTopGDP_LimitedAndDescending(t *testing.T) {
	fig := NewChartService().TopGDP(viewOf(15))

	require.Len(t, fig.Data, 1)
	bar := fig.Data[0]
	assert.Equal(t, "h", bar.Orientation)
	countries := bar.Y.([]string)
	values := bar.X.([]float64)
	require.Len(t, countries, 10)
	assert.Equal(t, "C14", countries[0])
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i-1], values[i])
	}
	assert.Equal(t, "reversed", fig.Layout.YAxis.AutoRange)
}

func TestBuild_EmptyViewEncodes(t *testing.T) {
	charts := NewChartService().Build(gapminder.View{Continent: "Atlantis"})

	raw, err := json.Marshal(charts)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"scatter"`)
	assert.Empty(t, charts.Scatter.Data)
}
