package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrUnavailable wraps every failure to open or initialize the catalog file.
var ErrUnavailable = errors.New("catalog unavailable")

var ErrInvalidEntry = errors.New("invalid script entry")

type DB struct {
	*sql.DB
	path string
}

type ScriptEntry struct {
	ID          int64
	Name        string
	Description string
	Content     string
	Kind        string
}

// ListEntry is the light projection of a ScriptEntry used for rosters.
type ListEntry struct {
	ID          int64
	Name        string
	Description string
}

type InsertResult int

const (
	Inserted InsertResult = iota
	Skipped
)

func (r InsertResult) String() string {
	if r == Skipped {
		return "skipped"
	}
	return "inserted"
}

type RunRecord struct {
	ID         int64
	RunID      string
	ScriptID   int64
	ScriptName string
	Kind       string
	Status     string
	ExitCode   int
	StartedAt  time.Time
	DurationMS int64
	StdoutTail string
	StderrTail string
}

func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnavailable)
	}
	if err := checkOwnership(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	// sql.Open is lazy; make sure the file can actually be opened.
	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}

	var mode string
	if err := sqlDB.QueryRowContext(context.Background(), `PRAGMA journal_mode=WAL;`).Scan(&mode); err != nil {
		_ = err // best-effort
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.EnsureSchema(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return db, nil
}

// WithDB opens the catalog for the duration of fn. Callers never hold a
// connection across operations.
func WithDB(path string, fn func(*DB) error) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (db *DB) Path() string { return db.path }

func (db *DB) EnsureSchema() error {
	_, err := db.ExecContext(context.Background(), schema)
	return err
}

// List returns one entry per name, sorted by name in byte order. When rows
// share a name the lowest id wins.
func (db *DB) List() ([]ListEntry, error) {
	rows, err := db.QueryContext(context.Background(), `
SELECT id, name, COALESCE(description, '')
FROM scripts
ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ListEntry{}
	for rows.Next() {
		var e ListEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Description); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].Name == e.Name {
			continue
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the script body for id. A missing id reports found=false and a
// nil error. A NULL body, possible in catalogs without the NOT NULL
// constraint, reads as empty.
func (db *DB) Get(id int64) (string, bool, error) {
	var content string
	err := db.QueryRowContext(context.Background(), `SELECT COALESCE(script_content, '') FROM scripts WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

func (db *DB) Lookup(id int64) (ScriptEntry, bool, error) {
	return db.scanEntry(db.QueryRowContext(context.Background(), `
SELECT id, name, COALESCE(description, ''), COALESCE(script_content, ''), COALESCE(type, '')
FROM scripts
WHERE id = ?`, id))
}

func (db *DB) FindByName(name string) (ScriptEntry, bool, error) {
	return db.scanEntry(db.QueryRowContext(context.Background(), `
SELECT id, name, COALESCE(description, ''), COALESCE(script_content, ''), COALESCE(type, '')
FROM scripts
WHERE name = ?
ORDER BY id ASC
LIMIT 1`, name))
}

func (db *DB) scanEntry(row *sql.Row) (ScriptEntry, bool, error) {
	var e ScriptEntry
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Content, &e.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return ScriptEntry{}, false, nil
	}
	if err != nil {
		return ScriptEntry{}, false, err
	}
	return e, true, nil
}

// Insert adds a script unless one with the same name already exists. The
// check and the insert are not atomic; the catalog has a single writer.
func (db *DB) Insert(name, description, content, kind string) (InsertResult, error) {
	if strings.TrimSpace(name) == "" {
		return Skipped, fmt.Errorf("%w: empty name", ErrInvalidEntry)
	}
	if content == "" {
		return Skipped, fmt.Errorf("%w: %s has empty content", ErrInvalidEntry, name)
	}

	var n int
	if err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM scripts WHERE name = ?`, name).Scan(&n); err != nil {
		return Skipped, err
	}
	if n > 0 {
		return Skipped, nil
	}

	if _, err := db.ExecContext(context.Background(), `
INSERT INTO scripts (name, description, script_content, type)
VALUES (?, ?, ?, ?)`, name, description, content, nullIfEmpty(kind)); err != nil {
		return Skipped, err
	}
	return Inserted, nil
}

func (db *DB) Count() (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM scripts`).Scan(&n)
	return n, err
}

func (db *DB) RecordRun(r RunRecord) error {
	_, err := db.ExecContext(context.Background(), `
INSERT INTO runs
(run_id, script_id, script_name, kind, status, exit_code, started_at, duration_ms, stdout_tail, stderr_tail)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, nullIfZero(r.ScriptID), r.ScriptName, r.Kind, r.Status, r.ExitCode,
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.DurationMS, r.StdoutTail, r.StderrTail,
	)
	return err
}

// ListRuns returns the most recent runs first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(context.Background(), `
SELECT id, run_id, COALESCE(script_id, 0), script_name, kind, status, exit_code, started_at, duration_ms, stdout_tail, stderr_tail
FROM runs
ORDER BY started_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var startedRaw sql.NullString
		if err := rows.Scan(&r.ID, &r.RunID, &r.ScriptID, &r.ScriptName, &r.Kind, &r.Status, &r.ExitCode,
			&startedRaw, &r.DurationMS, &r.StdoutTail, &r.StderrTail); err != nil {
			return nil, err
		}
		r.StartedAt = parseDBTime(startedRaw.String)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseDBTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if i := strings.Index(s, " m="); i != -1 {
		s = strings.TrimSpace(s[:i])
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullIfZero(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
