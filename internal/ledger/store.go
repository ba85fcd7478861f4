package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Run summarizes one batch invocation.
type Run struct {
	ID         string
	Manifest   string
	StartedAt  time.Time
	FinishedAt *time.Time
	Total      int
	Failed     int
}

// Finished reports whether the run recorded its totals.
func (r Run) Finished() bool { return r.FinishedAt != nil }

// Outcome is one job's recorded result.
type Outcome struct {
	Path     string
	Rotation string
	OK       bool
	Message  string
	Duration time.Duration
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

// Open creates or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them applied.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a run row for a batch about to dispatch total jobs.
func (s *Store) BeginRun(ctx context.Context, id, manifest string, total int, startedAt time.Time) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("begin run: id is required")
	}
	_, err := s.exec(ctx,
		`INSERT INTO runs (id, manifest, started_at, total) VALUES (?, ?, ?, ?)`,
		id, manifest, startedAt.UTC(), total,
	)
	if err != nil {
		return fmt.Errorf("begin run %s: %w", id, err)
	}
	return nil
}

// RecordOutcome appends one job result to a run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, o Outcome) error {
	ok := 0
	if o.OK {
		ok = 1
	}
	_, err := s.exec(ctx,
		`INSERT INTO outcomes (run_id, path, rotation, ok, message, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, o.Path, o.Rotation, ok, o.Message, o.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record outcome %s: %w", o.Path, err)
	}
	return nil
}

// FinishRun stamps the run's completion time and failure count.
func (s *Store) FinishRun(ctx context.Context, runID string, failed int, finishedAt time.Time) error {
	res, err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, failed = ? WHERE id = ?`,
		finishedAt.UTC(), failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, manifest, started_at, finished_at, total, failed
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			finished sql.NullTime
		)
		if err := rows.Scan(&run.ID, &run.Manifest, &run.StartedAt, &finished, &run.Total, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Outcomes lists the recorded results for a run in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, rotation, ok, COALESCE(message, ''), duration_ms
		 FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o  Outcome
			ok int
			ms int64
		)
		if err := rows.Scan(&o.Path, &o.Rotation, &ok, &o.Message, &ms); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.OK = ok != 0
		o.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

// ErrRunNotFound reports that no run matches an identifier or prefix.
var ErrRunNotFound = errors.New("run not found")

// ResolveRun expands a run ID prefix to the full ID. Ambiguous prefixes are
// rejected.
func (s *Store) ResolveRun(ctx context.Context, prefix string) (string, error) {
	ctx = ensureContext(ctx)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate runs: %w", err)
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id %q is ambiguous", prefix)
	}
}
