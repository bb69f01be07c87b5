package gapminder

import (
	"fmt"
	"sort"
)

// Filter returns the records whose continent equals continent, in dataset order.
// An unknown continent yields an empty view; use Dataset.Select to reject it instead.
func Filter(ds *Dataset, continent string) View {
	return filterRecords(ds.records, continent)
}

// FilterView applies the continent filter to an existing view
func FilterView(v View, continent string) View {
	return filterRecords(v.Records, continent)
}

func filterRecords(records []Record, continent string) View {
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Continent == continent {
			matched = append(matched, r)
		}
	}
	return View{Continent: continent, Records: matched}
}

// Select validates the selection and filters the dataset.
// An empty selection resolves to the default continent.
func (d *Dataset) Select(continent string) (View, error) {
	if continent == "" {
		continent = d.DefaultContinent()
	}
	if !d.HasContinent(continent) {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownContinent, continent)
	}
	return Filter(d, continent), nil
}

// TopN returns up to n records with the largest value of key, descending.
// Ties keep dataset order.
func (v View) TopN(n int, key func(Record) float64) []Record {
	sorted := make([]Record, len(v.Records))
	copy(sorted, v.Records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Float64s extracts a numeric column from the view
func (v View) Float64s(key func(Record) float64) []float64 {
	out := make([]float64, len(v.Records))
	for i, r := range v.Records {
		out[i] = key(r)
	}
	return out
}

// Field accessors for numeric columns
var (
	GDPPercap = func(r Record) float64 { return r.GDPPercap }
	LifeExp   = func(r Record) float64 { return r.LifeExp }
	Pop       = func(r Record) float64 { return float64(r.Pop) }
	Year      = func(r Record) float64 { return float64(r.Year) }
)
