// Package refdata models the reference tables (master ingredient list plus
// the auxiliary nutrition, cognitive, diet and microbiome tables) and the
// providers that load them.
package refdata

import (
	"bytes"
	"encoding/json"
	"strings"
)

// KeyColumns are the column names, in priority order, that hold a row's
// ingredient name.
var KeyColumns = []string{"ingredient_name", "ingredient", "food", "item", "name"}

// AliasColumns are the master-table column names, in priority order, that
// hold a comma or semicolon separated list of alternate names.
var AliasColumns = []string{"aliases", "alias", "also_known_as"}

// Row is an ordered column -> value mapping. Column names keep their
// original casing; Lookup matches them case-insensitively.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow builds a row from alternating column, value arguments.
// A trailing column without a value gets an empty cell.
func NewRow(pairs ...string) Row {
	var r Row
	for i := 0; i < len(pairs); i += 2 {
		val := ""
		if i+1 < len(pairs) {
			val = pairs[i+1]
		}
		r.Set(pairs[i], val)
	}
	return r
}

// RowOf builds a row from parallel column and value slices. Missing values
// are empty; extra values are ignored.
func RowOf(columns, values []string) Row {
	var r Row
	for i, col := range columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		r.Set(col, val)
	}
	return r
}

// Set assigns val to col. Re-setting a column keeps its original position.
func (r *Row) Set(col, val string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = val
}

// Columns returns the column names in insertion order.
func (r Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Values returns the cell values in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.columns))
	for i, col := range r.columns {
		out[i] = r.values[col]
	}
	return out
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.columns) }

// Get returns the value of the exactly named column.
func (r Row) Get(col string) string {
	return r.values[col]
}

// Lookup finds col case-insensitively, ignoring surrounding whitespace in
// the stored column name.
func (r Row) Lookup(col string) (string, bool) {
	if v, ok := r.values[col]; ok {
		return v, true
	}
	for _, c := range r.columns {
		if strings.EqualFold(strings.TrimSpace(c), col) {
			return r.values[c], true
		}
	}
	return "", false
}

// IsBlank reports whether every cell is empty after trimming.
func (r Row) IsBlank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// KeyValue returns the trimmed ingredient name of the row: the value of the
// first KeyColumns entry present in the row, or "".
func (r Row) KeyValue() string {
	return r.firstOf(KeyColumns)
}

// AliasValue returns the trimmed raw alias list of the row, or "".
func (r Row) AliasValue() string {
	return r.firstOf(AliasColumns)
}

func (r Row) firstOf(candidates []string) string {
	for _, c := range candidates {
		if v, ok := r.Lookup(c); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// MarshalJSON encodes the row as a JSON object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
