// Package render turns filtered reference tables into display grids and
// writes them as HTML fragments or XLSX workbooks.
package render

import (
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/service"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/textnorm"
)

// Grid is a table ready for display: repaired headers and one string per
// column in every row.
type Grid struct {
	Name    string
	Title   string
	Columns []string
	Rows    [][]string
}

// Display converts a result into grids. Header and cell text is passed
// through textnorm.RepairForDisplay; the matching logic never sees it.
func Display(res *service.Result) []Grid {
	if res == nil {
		return nil
	}
	grids := make([]Grid, 0, len(res.Tables))
	for _, t := range res.Tables {
		g := Grid{
			Name:    string(t.Name),
			Title:   t.Title,
			Columns: make([]string, len(t.Columns)),
			Rows:    make([][]string, len(t.Rows)),
		}
		for i, col := range t.Columns {
			g.Columns[i] = textnorm.RepairForDisplay(col)
		}
		for i, row := range t.Rows {
			cells := make([]string, len(t.Columns))
			for j, col := range t.Columns {
				cells[j] = textnorm.RepairForDisplay(row.Get(col))
			}
			g.Rows[i] = cells
		}
		grids = append(grids, g)
	}
	return grids
}
