// Package db stores scan runs in a SQLite database file.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ziadkadry99/pdfscan/internal/domain"
)

// DB wraps a sql.DB with pdfscan-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// The database must stay a single file so it can be renamed into place.
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    keyword TEXT NOT NULL,
    root TEXT NOT NULL,
    generated_at DATETIME NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    workers INTEGER NOT NULL DEFAULT 1,
    parallel INTEGER NOT NULL DEFAULT 0,
    candidates INTEGER NOT NULL DEFAULT 0,
    repaired INTEGER NOT NULL DEFAULT 0,
    excluded INTEGER NOT NULL DEFAULT 0,
    matches INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    file TEXT NOT NULL,
    page INTEGER NOT NULL,
    line TEXT NOT NULL,
    path TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matches_run ON matches(run_id);
CREATE INDEX IF NOT EXISTS idx_matches_path ON matches(path, page);

CREATE TABLE IF NOT EXISTS exclusions (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    path TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    PRIMARY KEY(run_id, path)
);
`

// Run is the summary row of one scan.
type Run struct {
	ID          string
	Keyword     string
	Root        string
	GeneratedAt time.Time
	Duration    time.Duration
	Workers     int
	Parallel    bool
	Candidates  int
	Repaired    int
}

// Exclusion is a document dropped by validation and why.
type Exclusion struct {
	Path   string
	Reason string
}

// SaveRun stores a run with its matches and exclusions in one transaction.
func (d *DB) SaveRun(ctx context.Context, run Run, matches []domain.MatchRecord, exclusions []Exclusion) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
        (id, keyword, root, generated_at, duration_ms, workers, parallel, candidates, repaired, excluded, matches)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Keyword, run.Root, run.GeneratedAt.UTC(), run.Duration.Milliseconds(),
		run.Workers, run.Parallel, run.Candidates, run.Repaired, len(exclusions), len(matches))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	matchStmt, err := tx.PrepareContext(ctx, `INSERT INTO matches (run_id, file, page, line, path) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare match insert: %w", err)
	}
	defer matchStmt.Close()
	for _, m := range matches {
		if _, err := matchStmt.ExecContext(ctx, run.ID, m.File, m.Page, m.Line, m.Path); err != nil {
			return fmt.Errorf("insert match %s page %d: %w", m.Path, m.Page, err)
		}
	}

	exclStmt, err := tx.PrepareContext(ctx, `INSERT INTO exclusions (run_id, path, reason) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare exclusion insert: %w", err)
	}
	defer exclStmt.Close()
	for _, e := range exclusions {
		if _, err := exclStmt.ExecContext(ctx, run.ID, e.Path, e.Reason); err != nil {
			return fmt.Errorf("insert exclusion %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// Matches returns the stored matches of a run in insertion order.
func (d *DB) Matches(ctx context.Context, runID string) ([]domain.MatchRecord, error) {
	rows, err := d.QueryContext(ctx, `SELECT file, page, line, path FROM matches WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchRecord
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(&m.File, &m.Page, &m.Line, &m.Path); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Exclusions returns the excluded documents of a run ordered by path.
func (d *DB) Exclusions(ctx context.Context, runID string) ([]Exclusion, error) {
	rows, err := d.QueryContext(ctx, `SELECT path, reason FROM exclusions WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query exclusions: %w", err)
	}
	defer rows.Close()

	var out []Exclusion
	for rows.Next() {
		var e Exclusion
		if err := rows.Scan(&e.Path, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
