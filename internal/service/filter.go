package service

import (
	"regexp"
	"strings"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
)

// IngredientSet is a set of canonical ingredient names.
type IngredientSet map[string]struct{}

// NewIngredientSet builds a set from canonical names.
func NewIngredientSet(names []string) IngredientSet {
	s := make(IngredientSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s IngredientSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// FilterRows returns the rows of table whose ingredient resolves to a member
// of target, in their original order. An empty target keeps every row.
// Blank rows are always dropped, as are rows without an ingredient name when
// target is non-empty.
func FilterRows(c *Catalog, table []refdata.Row, target IngredientSet) []refdata.Row {
	out := make([]refdata.Row, 0, len(table))
	for _, row := range table {
		if row.IsBlank() {
			continue
		}
		if len(target) == 0 {
			out = append(out, row)
			continue
		}
		key := row.KeyValue()
		if key == "" {
			continue
		}
		if target.Has(c.Canonical(key)) {
			out = append(out, row)
		}
	}
	return out
}

var (
	phantomColumn  = regexp.MustCompile(`^_+\d*$`)
	unnamedColumn  = regexp.MustCompile(`(?i)^unnamed`)
	numberedColumn = regexp.MustCompile(`(?i)^column\d+$`)
)

func hiddenColumn(name string) bool {
	n := strings.TrimSpace(name)
	return n == "" || phantomColumn.MatchString(n) || unnamedColumn.MatchString(n) || numberedColumn.MatchString(n)
}

// ChooseDisplayColumns returns the union of the rows' columns in order of
// first appearance, minus spreadsheet artifacts (blank, "_1", "Unnamed: 2",
// "Column3") and columns that are blank in every row.
func ChooseDisplayColumns(rows []refdata.Row) []string {
	var order []string
	seen := make(map[string]struct{})
	filled := make(map[string]bool)

	for _, row := range rows {
		cols := row.Columns()
		vals := row.Values()
		for i, col := range cols {
			if hiddenColumn(col) {
				continue
			}
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				order = append(order, col)
			}
			if strings.TrimSpace(vals[i]) != "" {
				filled[col] = true
			}
		}
	}

	out := make([]string, 0, len(order))
	for _, col := range order {
		if filled[col] {
			out = append(out, col)
		}
	}
	return out
}
