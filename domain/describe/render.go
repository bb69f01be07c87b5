package describe

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Row labels in render order
var rowLabels = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

const missing = "NaN"

// String renders the table with statistics as rows and fields as columns.
// Cells that do not apply to a column kind render as NaN.
func (t *Table) String() string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "")
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}
	writeRow(w, header)

	for _, label := range rowLabels {
		row := make([]string, 0, len(t.Columns)+1)
		row = append(row, label)
		for _, c := range t.Columns {
			row = append(row, c.cell(label))
		}
		writeRow(w, row)
	}

	_ = w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

func writeRow(w *tabwriter.Writer, cells []string) {
	_, _ = w.Write([]byte(strings.Join(cells, "\t") + "\t\n"))
}

func (c Column) cell(label string) string {
	if label == "count" {
		switch c.Kind {
		case KindNumeric:
			return formatFloat(float64(c.Numeric.Count))
		case KindCategorical:
			return strconv.Itoa(c.Categorical.Count)
		}
	}

	if c.Kind == KindCategorical {
		s := c.Categorical
		switch label {
		case "unique":
			return strconv.Itoa(s.Unique)
		case "top":
			if s.Count == 0 {
				return missing
			}
			return s.Top
		case "freq":
			if s.Count == 0 {
				return missing
			}
			return strconv.Itoa(s.Freq)
		}
		return missing
	}

	s := c.Numeric
	switch label {
	case "mean":
		return formatFloat(s.Mean)
	case "std":
		return formatFloat(s.Std)
	case "min":
		return formatFloat(s.Min)
	case "25%":
		return formatFloat(s.Q25)
	case "50%":
		return formatFloat(s.Q50)
	case "75%":
		return formatFloat(s.Q75)
	case "max":
		return formatFloat(s.Max)
	}
	return missing
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return missing
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
