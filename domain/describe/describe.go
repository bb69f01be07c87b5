// Package describe computes descriptive statistics over Gapminder records and
// renders them as a fixed-width text table suitable for embedding in a prompt.
package describe

import (
	"encoding/json"
	"math"
	"sort"

	"gapdash/domain/gapminder"

	"github.com/montanaflynn/stats"
)

// Kind distinguishes numeric and categorical columns
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// NumericSummary holds count/mean/std/min/quartiles/max for one column.
// Aggregates are NaN when undefined (empty input, or std with fewer than two values).
type NumericSummary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// CategoricalSummary holds count/unique/top/freq for one column.
// Top is empty and Freq zero when Count is zero.
type CategoricalSummary struct {
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq"`
}

// Column is the summary of one field
type Column struct {
	Name        string              `json:"name"`
	Kind        Kind                `json:"kind"`
	Numeric     *NumericSummary     `json:"numeric,omitempty"`
	Categorical *CategoricalSummary `json:"categorical,omitempty"`
}

// Table is the full describe output, one column per record field
type Table struct {
	Columns []Column `json:"columns"`
}

// Column returns the named column summary
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Describe summarizes every field of records. Empty input is valid.
func Describe(records []gapminder.Record) *Table {
	countries := make([]string, len(records))
	continents := make([]string, len(records))
	for i, r := range records {
		countries[i] = r.Country
		continents[i] = r.Continent
	}
	view := gapminder.View{Records: records}

	return &Table{Columns: []Column{
		categoricalColumn(gapminder.ColCountry, countries),
		categoricalColumn(gapminder.ColContinent, continents),
		numericColumn(gapminder.ColYear, view.Float64s(gapminder.Year)),
		numericColumn(gapminder.ColLifeExp, view.Float64s(gapminder.LifeExp)),
		numericColumn(gapminder.ColPop, view.Float64s(gapminder.Pop)),
		numericColumn(gapminder.ColGDP, view.Float64s(gapminder.GDPPercap)),
	}}
}

func numericColumn(name string, data []float64) Column {
	s := Numeric(data)
	return Column{Name: name, Kind: KindNumeric, Numeric: &s}
}

func categoricalColumn(name string, values []string) Column {
	s := Categorical(values)
	return Column{Name: name, Kind: KindCategorical, Categorical: &s}
}

// Numeric computes the summary of a numeric column
func Numeric(data []float64) NumericSummary {
	nan := math.NaN()
	s := NumericSummary{
		Count: len(data),
		Mean:  nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}
	if len(data) == 0 {
		return s
	}

	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	if len(data) > 1 {
		s.Std, _ = stats.StandardDeviationSample(data)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile uses linear interpolation between closest ranks, h = (n-1)p.
// sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Categorical computes the summary of a categorical column.
// Ties for the most frequent value resolve to the value seen first.
func Categorical(values []string) CategoricalSummary {
	s := CategoricalSummary{Count: len(values)}
	if len(values) == 0 {
		return s
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	s.Unique = len(counts)

	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	s.Top = ranked[0]
	s.Freq = counts[s.Top]
	return s
}

// MarshalJSON encodes undefined aggregates as null
func (s NumericSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"count": s.Count,
		"mean":  nullable(s.Mean),
		"std":   nullable(s.Std),
		"min":   nullable(s.Min),
		"25%":   nullable(s.Q25),
		"50%":   nullable(s.Q50),
		"75%":   nullable(s.Q75),
		"max":   nullable(s.Max),
	})
}

func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
