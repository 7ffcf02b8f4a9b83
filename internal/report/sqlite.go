package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/pdfscan/internal/db"
	"github.com/ziadkadry99/pdfscan/internal/fsutil"
)

// SQLiteWriter writes a fresh SQLite database holding the run, its matches
// and its exclusions. An existing file at the path is replaced.
type SQLiteWriter struct {
	path string
}

func (w *SQLiteWriter) Path() string { return w.path }

func (w *SQLiteWriter) Write(r Report) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return writeError(w.path, err)
	}

	err := fsutil.ReplaceFile(w.path, 0o644, func(tmpPath string) error {
		d, err := db.Open(tmpPath)
		if err != nil {
			return err
		}
		exclusions := make([]db.Exclusion, len(r.Excluded))
		for i, e := range r.Excluded {
			exclusions[i] = db.Exclusion{Path: e.Path, Reason: e.Reason}
		}
		run := db.Run{
			ID:          r.RunID,
			Keyword:     r.Keyword,
			Root:        r.Root,
			GeneratedAt: r.GeneratedAt,
			Duration:    r.Duration,
			Workers:     r.Workers,
			Parallel:    r.Parallel,
			Candidates:  r.Candidates,
			Repaired:    len(r.Repaired),
		}
		if err := d.SaveRun(context.Background(), run, r.Matches, exclusions); err != nil {
			d.Close()
			return fmt.Errorf("saving run: %w", err)
		}
		return d.Close()
	})
	if err != nil {
		return writeError(w.path, err)
	}
	return nil
}
