package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gapdash/domain/gapminder"
)

// headerAliases maps accepted header spellings to record columns
var headerAliases = map[string]string{
	"country":         gapminder.ColCountry,
	"continent":       gapminder.ColContinent,
	"year":            gapminder.ColYear,
	"lifeexp":         gapminder.ColLifeExp,
	"life_expectancy": gapminder.ColLifeExp,
	"pop":             gapminder.ColPop,
	"population":      gapminder.ColPop,
	"gdppercap":       gapminder.ColGDP,
	"gdp_per_capita":  gapminder.ColGDP,
}

// ParseRecords converts a header row plus data rows into records. Unknown columns
// (iso codes and the like) are ignored. year filters rows; 0 keeps every year.
func ParseRecords(rows [][]string, year int) ([]gapminder.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		if col, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			index[col] = i
		}
	}
	for _, col := range gapminder.Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	records := make([]gapminder.Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if isBlank(row) {
			continue
		}
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		y, err := strconv.Atoi(cell(gapminder.ColYear))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid year %q", line, cell(gapminder.ColYear))
		}
		if year != 0 && y != year {
			continue
		}
		lifeExp, err := strconv.ParseFloat(cell(gapminder.ColLifeExp), 64)
		if err != nil || !isFinite(lifeExp) {
			return nil, fmt.Errorf("row %d: invalid lifeExp %q", line, cell(gapminder.ColLifeExp))
		}
		pop, err := parsePopulation(cell(gapminder.ColPop))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid pop %q", line, cell(gapminder.ColPop))
		}
		gdp, err := strconv.ParseFloat(cell(gapminder.ColGDP), 64)
		if err != nil || !isFinite(gdp) {
			return nil, fmt.Errorf("row %d: invalid gdpPercap %q", line, cell(gapminder.ColGDP))
		}

		records = append(records, gapminder.Record{
			Country:   cell(gapminder.ColCountry),
			Continent: cell(gapminder.ColContinent),
			Year:      y,
			LifeExp:   lifeExp,
			Pop:       pop,
			GDPPercap: gdp,
		})
	}
	return records, nil
}

// parsePopulation accepts integers and integral floats such as "1.318683096e+09"
func parsePopulation(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("not a whole number")
	}
	return int64(f), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
