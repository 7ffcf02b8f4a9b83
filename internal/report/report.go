// Package report renders the results of a scan run into a static artifact.
package report

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/ziadkadry99/pdfscan/internal/domain"
)

// Report is everything a writer needs to describe one run.
type Report struct {
	RunID       string
	Keyword     string
	Root        string
	GeneratedAt time.Time
	Duration    time.Duration
	Workers     int
	Parallel    bool
	Candidates  int
	Repaired    []string
	Excluded    []Exclusion
	Matches     []domain.MatchRecord
}

// Exclusion is a document that was dropped by validation.
type Exclusion struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Writer persists a Report. Implementations replace the destination
// atomically and report failures as report-write errors.
type Writer interface {
	Write(r Report) error
	Path() string
}

// Format names accepted by NewWriter.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatSQLite   = "sqlite"
)

// Formats lists the canonical format names.
var Formats = []string{FormatHTML, FormatMarkdown, FormatJSON, FormatSQLite}

// NormalizeFormat maps a user-supplied format name to its canonical form.
// Case is ignored, "md" means markdown and an empty name means html.
func NormalizeFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
		return FormatHTML, nil
	case "md":
		return FormatMarkdown, nil
	case FormatHTML, FormatMarkdown, FormatJSON, FormatSQLite:
		return f, nil
	default:
		return "", domain.ConfigError(fmt.Errorf("unknown report format %q: must be one of %s", format, strings.Join(Formats, ", ")))
	}
}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	f, _ := NormalizeFormat(format)
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatSQLite:
		return ".db"
	default:
		return ".html"
	}
}

// NewWriter returns the writer for format, writing to path.
func NewWriter(format, path string) (Writer, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatMarkdown:
		return &MarkdownWriter{path: path}, nil
	case FormatJSON:
		return &JSONWriter{path: path}, nil
	case FormatSQLite:
		return &SQLiteWriter{path: path}, nil
	default:
		return &HTMLWriter{path: path}, nil
	}
}

// fileURL turns an absolute filesystem path into a file:// link target.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

func writeError(path string, err error) error {
	return domain.ReportWriteError(path, err)
}
