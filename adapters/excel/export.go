package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gapdash/domain/gapminder"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the view as a single-sheet workbook named after the continent
func WriteXLSX(w io.Writer, view gapminder.View) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := view.Continent
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(gapminder.Columns))
	for i, c := range gapminder.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range view.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Country, r.Continent, r.Year, r.LifeExp, r.Pop, r.GDPPercap}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteCSV writes the view with the Gapminder header
func WriteCSV(w io.Writer, view gapminder.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(gapminder.Columns); err != nil {
		return err
	}
	for _, r := range view.Records {
		if err := cw.Write([]string{
			r.Country,
			r.Continent,
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.LifeExp, 'f', -1, 64),
			strconv.FormatInt(r.Pop, 10),
			strconv.FormatFloat(r.GDPPercap, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
