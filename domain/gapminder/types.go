package gapminder

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownContinent is returned when a selection is not among the dataset's continents
var ErrUnknownContinent = errors.New("unknown continent")

// Column keys, matching the Gapminder CSV header
const (
	ColCountry   = "country"
	ColContinent = "continent"
	ColYear      = "year"
	ColLifeExp   = "lifeExp"
	ColPop       = "pop"
	ColGDP       = "gdpPercap"
)

// Columns lists every field of a Record in display order
var Columns = []string{ColCountry, ColContinent, ColYear, ColLifeExp, ColPop, ColGDP}

// Record is one country-year observation
type Record struct {
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Year      int     `json:"year"`
	LifeExp   float64 `json:"lifeExp"`
	Pop       int64   `json:"pop"`
	GDPPercap float64 `json:"gdpPercap"`
}

// Dataset is an ordered, read-only sequence of records
type Dataset struct {
	records    []Record
	continents []string
}

// NewDataset validates records and builds a dataset.
// Records are copied; the caller's slice is never retained.
func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.New("dataset is empty")
	}

	type key struct {
		country string
		year    int
	}
	seen := make(map[key]struct{}, len(records))
	seenContinent := make(map[string]struct{})
	ds := &Dataset{records: make([]Record, len(records))}

	for i, r := range records {
		if r.Country == "" {
			return nil, fmt.Errorf("record %d: missing country", i)
		}
		if r.Continent == "" {
			return nil, fmt.Errorf("record %d (%s): missing continent", i, r.Country)
		}
		if !finite(r.LifeExp) || !finite(r.GDPPercap) {
			return nil, fmt.Errorf("record %d (%s): non-finite lifeExp or gdpPercap", i, r.Country)
		}
		k := key{r.Country, r.Year}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("record %d: duplicate observation for %s in %d", i, r.Country, r.Year)
		}
		seen[k] = struct{}{}

		if _, ok := seenContinent[r.Continent]; !ok {
			seenContinent[r.Continent] = struct{}{}
			ds.continents = append(ds.continents, r.Continent)
		}
		ds.records[i] = r
	}

	return ds, nil
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in dataset order
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Continents returns the distinct continents in order of first appearance
func (d *Dataset) Continents() []string {
	out := make([]string, len(d.continents))
	copy(out, d.continents)
	return out
}

// DefaultContinent is the first continent in Continents order
func (d *Dataset) DefaultContinent() string {
	return d.continents[0]
}

// HasContinent reports whether continent is one of the dataset's values
func (d *Dataset) HasContinent(continent string) bool {
	for _, c := range d.continents {
		if c == continent {
			return true
		}
	}
	return false
}

// Years returns the distinct years present, in order of first appearance
func (d *Dataset) Years() []int {
	seen := make(map[int]struct{})
	var years []int
	for _, r := range d.records {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			years = append(years, r.Year)
		}
	}
	return years
}

// View is the subset of a dataset matching one continent
type View struct {
	Continent string   `json:"continent"`
	Records   []Record `json:"records"`
}

// Len returns the number of records in the view
func (v View) Len() int {
	return len(v.Records)
}

// IsEmpty reports whether the view holds no records
func (v View) IsEmpty() bool {
	return len(v.Records) == 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
