package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSX writes one worksheet per grid, named after the grid title.
func XLSX(w io.Writer, grids []Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, g := range grids {
		sheet := sheetName(g)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, g, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, g Grid, headerStyle int) error {
	// StreamWriter for efficiency on large tables
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(g.Columns))
	for i, c := range g.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}
	for i, r := range g.Rows {
		row := make([]interface{}, len(r))
		for j, v := range r {
			row[j] = v
		}
		cellAddr, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cellAddr, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// sheetName keeps within Excel's 31 character limit.
func sheetName(g Grid) string {
	name := g.Title
	if name == "" {
		name = g.Name
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
