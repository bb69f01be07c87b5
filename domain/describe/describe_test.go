package describe

import (
	"math"
	"strings"
	"testing"

	"gapdash/domain/gapminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_HandComputed(t *testing.T) {
	s := Numeric([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-9)
	assert.InDelta(t, 2.5, s.Q50, 1e-9)
	assert.InDelta(t, 3.25, s.Q75, 1e-9)
	assert.Equal(t, 4.0, s.Max)
}

func TestNumeric_SingleValueHasUndefinedStd(t *testing.T) {
	s := Numeric([]float64{7})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 7.0, s.Mean)
	assert.True(t, math.IsNaN(s.Std))
	assert.Equal(t, 7.0, s.Q25)
	assert.Equal(t, 7.0, s.Q75)
}

func TestNumeric_Empty(t *testing.T) {
	s := Numeric(nil)

	assert.Equal(t, 0, s.Count)
	for _, v := range []float64{s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max} {
		assert.True(t, math.IsNaN(v))
	}
}

func TestCategorical(t *testing.T) {
	s := Categorical([]string{"b", "a", "b", "c", "a"})

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3, s.Unique)
	assert.Equal(t, "b", s.Top, "ties resolve to first seen")
	assert.Equal(t, 2, s.Freq)

	empty := Categorical(nil)
	assert.Equal(t, CategoricalSummary{}, empty)
}

func TestDescribe_AllColumns(t *testing.T) {
	records := []gapminder.Record{
		{Country: "A", Continent: "Asia", Year: 2007, LifeExp: 70, Pop: 100, GDPPercap: 1000},
		{Country: "B", Continent: "Asia", Year: 2007, LifeExp: 80, Pop: 300, GDPPercap: 3000},
	}

	table := Describe(records)

	require.Len(t, table.Columns, len(gapminder.Columns))
	for i, name := range gapminder.Columns {
		assert.Equal(t, name, table.Columns[i].Name)
	}

	life, ok := table.Column(gapminder.ColLifeExp)
	require.True(t, ok)
	assert.Equal(t, KindNumeric, life.Kind)
	assert.InDelta(t, 75, life.Numeric.Mean, 1e-9)

	continent, ok := table.Column(gapminder.ColContinent)
	require.True(t, ok)
	assert.Equal(t, 1, continent.Categorical.Unique)
	assert.Equal(t, "Asia", continent.Categorical.Top)
	assert.Equal(t, 2, continent.Categorical.Freq)
}

func TestTable_String(t *testing.T) {
	records := []gapminder.Record{
		{Country: "A", Continent: "Asia", Year: 2007, LifeExp: 70, Pop: 100, GDPPercap: 1000},
		{Country: "B", Continent: "Asia", Year: 2007, LifeExp: 80, Pop: 300, GDPPercap: 3000},
	}

	out := Describe(records).String()
	lines := strings.Split(out, "\n")

	require.Len(t, lines, len(rowLabels)+1)
	for _, name := range gapminder.Columns {
		assert.Contains(t, lines[0], name)
	}
	assert.Contains(t, lines[1], "count")
	assert.Contains(t, lines[3], "Asia")
	assert.Contains(t, out, "75.000000")
	assert.Contains(t, out, "2000.000000")
}

func TestTable_StringEmptyDoesNotPanic(t *testing.T) {
	var out string
	require.NotPanics(t, func() {
		out = Describe(nil).String()
	})
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "count")
}

func TestNumericSummary_MarshalJSONNulls(t *testing.T) {
	raw, err := Numeric(nil).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"mean":null,"std":null,"min":null,"25%":null,"50%":null,"75%":null,"max":null}`, string(raw))
}
