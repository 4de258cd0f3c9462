// Package history records scan runs in a local SQLite database so dataset
// health can be compared over time.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/fenilsonani/imgcheck/internal/scanner"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Run is one recorded scan
type Run struct {
	ID          string
	Directory   string
	StartedAt   time.Time
	FinishedAt  time.Time
	Cancelled   bool
	Total       int
	Passed      int
	Failed      int
	Skipped     int
	Unprocessed int
}

// Change describes a file whose outcome differs between two runs
type Change struct {
	Name     string
	Previous scanner.Issue
	Current  scanner.Issue
	Added    bool
	Removed  bool
}

// Store persists scan runs
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}

	// Single writer connection for SQLite
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a report and its per-file outcomes in one transaction
func (s *Store) Record(ctx context.Context, report *scanner.ScanReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	sum := report.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_runs (id, directory, started_at, finished_at, cancelled, total, passed, failed, skipped, unprocessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Directory,
		formatTime(report.StartedAt),
		formatTime(report.FinishedAt),
		report.Cancelled,
		sum.Total, sum.Passed, sum.Failed, sum.Skipped, sum.Unprocessed,
	)
	if err != nil {
		return fmt.Errorf("inserting scan run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scan_files (run_id, name, status, issue, error, width, height, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing file insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range report.Records {
		if _, err := stmt.ExecContext(ctx,
			report.ID, rec.Name, string(rec.Status), string(rec.Issue), rec.Error, rec.Width, rec.Height, rec.Hash,
		); err != nil {
			return fmt.Errorf("inserting file %s: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing scan run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. An empty directory matches
// every directory.
func (s *Store) Recent(ctx context.Context, directory string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, directory, started_at, finished_at, cancelled, total, passed, failed, skipped, unprocessed
		FROM scan_runs
		WHERE ? = '' OR directory = ?
		ORDER BY started_at DESC
		LIMIT ?`, directory, directory, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scan runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run               Run
			started, finished string
		)
		if err := rows.Scan(&run.ID, &run.Directory, &started, &finished, &run.Cancelled,
			&run.Total, &run.Passed, &run.Failed, &run.Skipped, &run.Unprocessed); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Changes compares the per-file issues of two runs, including files that
// appear in only one of them.
func (s *Store) Changes(ctx context.Context, previousID, currentID string) ([]Change, error) {
	previous, err := s.issues(ctx, previousID)
	if err != nil {
		return nil, err
	}
	current, err := s.issues(ctx, currentID)
	if err != nil {
		return nil, err
	}

	changes := make([]Change, 0)
	for name, issue := range current {
		prev, ok := previous[name]
		if !ok || prev != issue {
			changes = append(changes, Change{Name: name, Previous: prev, Current: issue, Added: !ok})
		}
	}
	for name, issue := range previous {
		if _, ok := current[name]; !ok {
			changes = append(changes, Change{Name: name, Previous: issue, Removed: true})
		}
	}

	sortChanges(changes)
	return changes, nil
}

func (s *Store) issues(ctx context.Context, runID string) (map[string]scanner.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, issue FROM scan_files WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %s: %w", runID, err)
	}
	defer rows.Close()

	out := make(map[string]scanner.Issue)
	for rows.Next() {
		var name, issue string
		if err := rows.Scan(&name, &issue); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		out[name] = scanner.Issue(issue)
	}
	return out, rows.Err()
}

func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Name < changes[j].Name
	})
}

// Timestamps are stored as fixed-width UTC text so they sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}
