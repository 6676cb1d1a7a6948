package export

import (
	"html/template"
	"os"
	"time"

	"snaporder/internal/pipeline"
)

const htmlReport = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Order Extraction Report</title>
<style>
body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
.summary { display: flex; gap: 1.5em; flex-wrap: wrap; margin-bottom: 1.5em; }
.stat { background: #f4f6fa; border-radius: 6px; padding: 0.8em 1.2em; }
.stat b { display: block; font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; font-size: 0.85em; }
th { background: #4472c4; color: white; text-align: left; padding: 6px 8px; }
td { border-bottom: 1px solid #ddd; padding: 6px 8px; vertical-align: top; }
.status-Success { color: #1a7f37; font-weight: 600; }
.status-Review-Required { color: #b58900; font-weight: 600; }
.status-Failed, .status-Failed-Load, .status-Error { color: #c0392b; font-weight: 600; }
</style>
</head>
<body>
<h1>Order Extraction Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
<div class="summary">
  <div class="stat"><b>{{.Summary.Total}}</b>screenshots</div>
  <div class="stat"><b>{{.Summary.Success}}</b>success</div>
  <div class="stat"><b>{{.Summary.ReviewRequired}}</b>review required</div>
  <div class="stat"><b>{{.Summary.Failed}}</b>failed</div>
  <div class="stat"><b>{{.Summary.UniqueOrderIDs}}</b>unique orders</div>
  <div class="stat"><b>{{printf "%.1f" .Summary.AvgConfidence}}</b>avg confidence</div>
</div>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr class="status-{{index . 1 | css}}">{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
</body>
</html>
`

func (w *Writer) writeHTML(path string, records []pipeline.ExtractionRecord, summary pipeline.Summary) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"css": func(s string) string {
			out := make([]rune, 0, len(s))
			for _, r := range s {
				if r == ' ' {
					r = '-'
				}
				out = append(out, r)
			}
			return string(out)
		},
	}).Parse(htmlReport)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, w.row(r))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return tmpl.Execute(f, map[string]any{
		"GeneratedAt": time.Now(),
		"Summary":     summary,
		"Headers":     w.headers(),
		"Rows":        rows,
	})
}
