package report

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/pdfscan/internal/fsutil"
)

// MarkdownWriter renders the summary and a GFM table of matches.
type MarkdownWriter struct {
	path string
}

func (w *MarkdownWriter) Path() string { return w.path }

func (w *MarkdownWriter) Write(r Report) error {
	if err := fsutil.WriteFile(w.path, []byte(renderMarkdownReport(r)), 0o644); err != nil {
		return writeError(w.path, err)
	}
	return nil
}

func renderMarkdownReport(r Report) string {
	var b strings.Builder
	b.WriteString("# PDF Search Results\n\n")
	fmt.Fprintf(&b, "For a keyword: **%s** was found **%d** results.\n\n", escapeMarkdown(r.Keyword), len(r.Matches))
	b.WriteString(summaryMarkdown(r))
	b.WriteString("\n| # | file | page | line | path |\n")
	b.WriteString("|---|------|-----:|------|------|\n")
	for i, m := range r.Matches {
		fmt.Fprintf(&b, "| %d | %s | %d | %s | [open file](<%s>) |\n",
			i, escapeMarkdown(m.File), m.Page, escapeMarkdown(m.Line), fileURL(m.Path))
	}
	return b.String()
}
