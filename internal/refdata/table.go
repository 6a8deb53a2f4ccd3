package refdata

import "errors"

// ErrTableNotFound is returned by providers when a table does not exist at
// the source.
var ErrTableNotFound = errors.New("reference table not found")

// TableName identifies one of the reference tables.
type TableName string

const (
	Master     TableName = "master"
	Nutrition  TableName = "nutrition"
	Cognitive  TableName = "cognitive"
	Diet       TableName = "diet"
	Microbiome TableName = "microbiome"
)

// AuxiliaryTables lists the tables filtered per request, in display order.
var AuxiliaryTables = []TableName{Nutrition, Cognitive, Diet, Microbiome}

// AllTables is every table a provider can serve.
var AllTables = append([]TableName{Master}, AuxiliaryTables...)

var fileNames = map[TableName]string{
	Master:     "master.csv",
	Nutrition:  "nutrition.csv",
	Cognitive:  "cognitive_benefits.csv",
	Diet:       "diet_compatibility.csv",
	Microbiome: "microbiome.csv",
}

var titles = map[TableName]string{
	Master:     "Ingredients",
	Nutrition:  "Nutrition",
	Cognitive:  "Cognitive Benefits",
	Diet:       "Diet Compatibility",
	Microbiome: "Microbiome",
}

// FileName is the CSV file name the table is published under.
func (n TableName) FileName() string {
	if f, ok := fileNames[n]; ok {
		return f
	}
	return string(n) + ".csv"
}

// Title is the human readable table heading.
func (n TableName) Title() string {
	if t, ok := titles[n]; ok {
		return t
	}
	return string(n)
}

// Optional reports whether a missing table is treated as empty rather than
// as a load failure. Older data drops do not ship the microbiome table.
func (n TableName) Optional() bool {
	return n == Microbiome
}

// ParseTableName maps a name such as "nutrition" to its TableName.
func ParseTableName(s string) (TableName, bool) {
	for _, n := range AllTables {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Table is a named, ordered collection of rows.
type Table struct {
	Name TableName
	Rows []Row
}

// Compact returns a copy of t without blank rows.
func (t Table) Compact() Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.IsBlank() {
			continue
		}
		rows = append(rows, r)
	}
	return Table{Name: t.Name, Rows: rows}
}
