package report

import (
	"encoding/json"
	"time"

	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/fsutil"
)

// JSONWriter writes the report as indented JSON.
type JSONWriter struct {
	path string
}

func (w *JSONWriter) Path() string { return w.path }

type jsonReport struct {
	RunID       string               `json:"run_id"`
	Keyword     string               `json:"keyword"`
	Root        string               `json:"root"`
	GeneratedAt time.Time            `json:"generated_at"`
	DurationMS  int64                `json:"duration_ms"`
	Workers     int                  `json:"workers"`
	Parallel    bool                 `json:"parallel"`
	Candidates  int                  `json:"candidates"`
	Count       int                  `json:"count"`
	Repaired    []string             `json:"repaired"`
	Excluded    []Exclusion          `json:"excluded"`
	Matches     []domain.MatchRecord `json:"matches"`
}

func (w *JSONWriter) Write(r Report) error {
	out := jsonReport{
		RunID:       r.RunID,
		Keyword:     r.Keyword,
		Root:        r.Root,
		GeneratedAt: r.GeneratedAt,
		DurationMS:  r.Duration.Milliseconds(),
		Workers:     r.Workers,
		Parallel:    r.Parallel,
		Candidates:  r.Candidates,
		Count:       len(r.Matches),
		Repaired:    nonNil(r.Repaired),
		Excluded:    nonNil(r.Excluded),
		Matches:     nonNil(r.Matches),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return writeError(w.path, err)
	}
	if err := fsutil.WriteFile(w.path, append(data, '\n'), 0o644); err != nil {
		return writeError(w.path, err)
	}
	return nil
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
