package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ziadkadry99/pdfscan/internal/fsutil"
)

// HTMLWriter renders a DataTables page with one row per match.
type HTMLWriter struct {
	path string
}

func (w *HTMLWriter) Path() string { return w.path }

type htmlRow struct {
	Index int
	File  string
	Page  int
	Line  string
	Link  template.URL
}

type htmlData struct {
	Keyword     string
	Count       int
	GeneratedAt string
	Summary     template.HTML
	Rows        []htmlRow
}

var pageTmpl = template.Must(template.New("report").Parse(pageTemplate))

func (w *HTMLWriter) Write(r Report) error {
	data, err := renderHTML(r)
	if err != nil {
		return writeError(w.path, err)
	}
	if err := fsutil.WriteFile(w.path, data, 0o644); err != nil {
		return writeError(w.path, err)
	}
	return nil
}

func renderHTML(r Report) ([]byte, error) {
	summary, err := renderMarkdown(summaryMarkdown(r))
	if err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}

	rows := make([]htmlRow, len(r.Matches))
	for i, m := range r.Matches {
		rows[i] = htmlRow{
			Index: i,
			File:  m.File,
			Page:  m.Page,
			Line:  m.Line,
			// html/template rewrites file:// links it was not told are safe.
			Link: template.URL(fileURL(m.Path)),
		}
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, htmlData{
		Keyword:     r.Keyword,
		Count:       len(r.Matches),
		GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		Summary:     template.HTML(summary),
		Rows:        rows,
	})
	if err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>PDF Search Results</title>
  <link href="https://cdn.datatables.net/1.11.5/css/jquery.dataTables.min.css" rel="stylesheet">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem; color: #1f2328; }
    h1 u, h2 u { text-decoration-thickness: 2px; }
    .summary { background: #f6f8fa; border: 1px solid #d0d7de; border-radius: 6px; padding: 0.5rem 1.25rem; margin-bottom: 1.5rem; }
    .summary code { font-size: 0.9em; }
    .generated { color: #656d76; font-size: 0.85rem; }
    td.line { white-space: pre-wrap; }
  </style>
</head>
<body>
  <h1><u>PDF Search Results</u></h1>
  <h2>For a keyword: <u>{{.Keyword}}</u> was found <u>{{.Count}}</u> results.</h2>
  <p class="generated">Generated {{.GeneratedAt}}</p>
  <section class="summary">
    {{.Summary}}
  </section>
  <table id="table" class="display">
    <thead>
      <tr><th></th><th>file</th><th>page</th><th>line</th><th>path</th></tr>
    </thead>
    <tbody>
    {{- range .Rows}}
      <tr>
        <td>{{.Index}}</td>
        <td>{{.File}}</td>
        <td>{{.Page}}</td>
        <td class="line">{{.Line}}</td>
        <td><a href="{{.Link}}" target="_blank">open file</a></td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  <script src="https://code.jquery.com/jquery-3.6.0.slim.min.js" integrity="sha256-u7e5khyithlIdTpu22PHhENmPcRdFiHRjhAuHcs05RI=" crossorigin="anonymous"></script>
  <script type="text/javascript" src="https://cdn.datatables.net/1.11.5/js/jquery.dataTables.min.js"></script>
  <script>
    $(document).ready(function () {
      $('#table').DataTable({ pageLength: 25 });
    });
  </script>
</body>
</html>
`
