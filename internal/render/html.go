package render

import (
	"html/template"
	"io"
)

var page = template.Must(template.New("tables").Parse(`<section class="reference-tables">
{{- if .Failed}}
<div class="load-error" role="alert">Reference data is unavailable right now. Please try again later.</div>
{{- else}}
{{- range .Grids}}
<h3>{{.Title}}</h3>
{{- if .Rows}}
<table data-table="{{.Name}}">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p class="empty" data-table="{{.Name}}">No rows</p>
{{- end}}
{{- end}}
{{- end}}
</section>
`))

// HTML writes grids as an HTML fragment. When loadErr is non-nil an error
// banner is written in place of the tables.
func HTML(w io.Writer, grids []Grid, loadErr error) error {
	return page.Execute(w, struct {
		Failed bool
		Grids  []Grid
	}{Failed: loadErr != nil, Grids: grids})
}
