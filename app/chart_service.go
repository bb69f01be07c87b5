package app

import (
	"math"
	"sort"

	"gapdash/domain/gapminder"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	scatterSizeMax = 60
	topN           = 10
	histogramBins  = 10
)

// Figure is a Plotly figure payload rendered client-side
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly series
type Trace struct {
	Type        string      `json:"type"`
	Mode        string      `json:"mode,omitempty"`
	Name        string      `json:"name,omitempty"`
	Orientation string      `json:"orientation,omitempty"`
	X           interface{} `json:"x"`
	Y           interface{} `json:"y"`
	Text        []string    `json:"text,omitempty"`
	Width       []float64   `json:"width,omitempty"`
	Marker      *Marker     `json:"marker,omitempty"`
}

// Marker sizes scatter points by area
type Marker struct {
	Size     []float64 `json:"size,omitempty"`
	SizeMode string    `json:"sizemode,omitempty"`
	SizeRef  float64   `json:"sizeref,omitempty"`
}

// Layout holds figure titles and axes
type Layout struct {
	Title      string `json:"title"`
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ShowLegend bool   `json:"showlegend"`
}

// Axis configures one axis
type Axis struct {
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	AutoRange string `json:"autorange,omitempty"`
}

// Charts bundles the three dashboard figures for one view
type Charts struct {
	Scatter   Figure `json:"scatter"`
	TopGDP    Figure `json:"top_gdp"`
	Histogram Figure `json:"histogram"`
}

// ChartService builds chart payloads from a filtered view
type ChartService struct{}

// NewChartService creates a chart service
func NewChartService() *ChartService {
	return &ChartService{}
}

// Build returns all three figures for view
func (c *ChartService) Build(view gapminder.View) Charts {
	return Charts{
		Scatter:   c.Scatter(view),
		TopGDP:    c.TopGDP(view),
		Histogram: c.LifeExpHistogram(view),
	}
}

// Scatter plots GDP per capita (log x) against life expectancy, one trace per
// country, markers sized by population.
func (c *ChartService) Scatter(view gapminder.View) Figure {
	maxPop := 0.0
	for _, r := range view.Records {
		maxPop = math.Max(maxPop, float64(r.Pop))
	}
	sizeRef := 1.0
	if maxPop > 0 {
		sizeRef = 2 * maxPop / (scatterSizeMax * scatterSizeMax)
	}

	traces := make([]Trace, 0, view.Len())
	for _, r := range view.Records {
		traces = append(traces, Trace{
			Type: "scatter",
			Mode: "markers",
			Name: r.Country,
			X:    []float64{r.GDPPercap},
			Y:    []float64{r.LifeExp},
			Marker: &Marker{
				Size:     []float64{float64(r.Pop)},
				SizeMode: "area",
				SizeRef:  sizeRef,
			},
		})
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:      "GDP vs Life Expectancy in " + view.Continent,
			XAxis:      Axis{Title: gapminder.ColGDP, Type: "log"},
			YAxis:      Axis{Title: gapminder.ColLifeExp},
			ShowLegend: true,
		},
	}
}

// TopGDP is a horizontal bar chart of the ten richest countries, largest on top
func (c *ChartService) TopGDP(view gapminder.View) Figure {
	top := view.TopN(topN, gapminder.GDPPercap)
	countries := make([]string, len(top))
	values := make([]float64, len(top))
	for i, r := range top {
		countries[i] = r.Country
		values[i] = r.GDPPercap
	}

	return Figure{
		Data: []Trace{{
			Type:        "bar",
			Orientation: "h",
			X:           values,
			Y:           countries,
		}},
		Layout: Layout{
			Title: "Top 10 Countries by GDP per Capita",
			XAxis: Axis{Title: "GDP per Capita"},
			YAxis: Axis{AutoRange: "reversed"},
		},
	}
}

// LifeExpHistogram bins life expectancy into equal-width bins
func (c *ChartService) LifeExpHistogram(view gapminder.View) Figure {
	centers, counts, width := Histogram(view.Float64s(gapminder.LifeExp), histogramBins)
	widths := make([]float64, len(centers))
	for i := range widths {
		widths[i] = width
	}

	return Figure{
		Data: []Trace{{
			Type:  "bar",
			Name:  gapminder.ColLifeExp,
			X:     centers,
			Y:     counts,
			Width: widths,
		}},
		Layout: Layout{
			Title: "Life Expectancy Distribution",
			XAxis: Axis{Title: gapminder.ColLifeExp},
			YAxis: Axis{Title: "count"},
		},
	}
}

// Histogram splits data into n equal-width bins spanning [min, max] and returns
// bin centers, counts and the bin width. Empty data yields no bins.
func Histogram(data []float64, n int) (centers, counts []float64, width float64) {
	if n <= 0 {
		return []float64{}, []float64{}, 0
	}

	// NaN and Inf values are not binnable
	sorted := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return []float64{}, []float64{}, 0
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// the last bin is closed on the right
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)
	width = (hi - lo) / float64(n)
	centers = make([]float64, n)
	for i := range centers {
		centers[i] = lo + width*(float64(i)+0.5)
	}
	return centers, counts, width
}
