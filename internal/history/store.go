package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

var (
	// ErrSchemaMismatch indicates the database was written by a different schema version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrNotFound is returned when no run matches an identifier.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguous is returned when an identifier prefix matches several runs.
	ErrAmbiguous = errors.New("run id prefix is ambiguous")
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

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

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset history)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record stores a run and its per-file results in one transaction.
func (s *Store) Record(ctx context.Context, run Run, files []FileResult) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is empty")
	}
	return retryOnBusy(ctx, func() error {
		return s.record(ctx, run, files)
	})
}

func (s *Store) record(ctx context.Context, run Run, files []FileResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, backend, flavor, subsets, codepoints,
            input_dir, output_dir, status, total, written, skipped, failed,
            not_started, bytes_in, bytes_out, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Backend,
		run.Flavor,
		nullableString(strings.Join(run.Subsets, ",")),
		run.Codepoints,
		nullableString(run.InputDir),
		nullableString(run.OutputDir),
		string(run.Status),
		run.Total,
		run.Written,
		run.Skipped,
		run.Failed,
		run.NotStarted,
		run.BytesIn,
		run.BytesOut,
		nullableString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_files (
            run_id, position, input_path, output_path, outcome, reason,
            input_bytes, output_bytes, duration_ms, attempts, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range files {
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			i,
			f.InputPath,
			nullableString(f.OutputPath),
			f.Outcome,
			nullableString(f.Reason),
			f.InputBytes,
			f.OutputBytes,
			f.Duration.Milliseconds(),
			f.Attempts,
			nullableString(f.Error),
		); err != nil {
			return fmt.Errorf("insert file result %s: %w", f.InputPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

const runColumns = "id, started_at, finished_at, backend, flavor, subsets, codepoints, input_dir, output_dir, status, total, written, skipped, failed, not_started, bytes_in, bytes_out, error_message"

// Recent returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run whose id equals or uniquely starts with id, together
// with its file results in input order.
func (s *Store) Get(ctx context.Context, id string) (Run, []FileResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, nil, ErrNotFound
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(id)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		id, escaped+"%",
	)
	if err != nil {
		return Run{}, nil, fmt.Errorf("find run: %w", err)
	}
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			_ = rows.Close()
			return Run{}, nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return Run{}, nil, err
	}
	_ = rows.Close()

	var run Run
	switch {
	case len(matches) == 0:
		return Run{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(matches) == 1:
		run = matches[0]
	default:
		exact := false
		for _, m := range matches {
			if m.ID == id {
				run, exact = m, true
			}
		}
		if !exact {
			return Run{}, nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
		}
	}

	files, err := s.files(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, files, nil
}

func (s *Store) files(ctx context.Context, runID string) ([]FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT input_path, output_path, outcome, reason, input_bytes, output_bytes,
                duration_ms, attempts, error_message
         FROM run_files WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list file results: %w", err)
	}
	defer rows.Close()

	var files []FileResult
	for rows.Next() {
		var (
			f          FileResult
			outputPath sql.NullString
			reason     sql.NullString
			durationMS int64
			errMsg     sql.NullString
		)
		if err := rows.Scan(&f.InputPath, &outputPath, &f.Outcome, &reason, &f.InputBytes,
			&f.OutputBytes, &durationMS, &f.Attempts, &errMsg); err != nil {
			return nil, fmt.Errorf("scan file result: %w", err)
		}
		f.OutputPath = outputPath.String
		f.Reason = reason.String
		f.Duration = time.Duration(durationMS) * time.Millisecond
		f.Error = errMsg.String
		files = append(files, f)
	}
	return files, rows.Err()
}

// Prune removes runs older than cutoff and returns how many were deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, formatTime(cutoff))
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return deleted, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
		subsets     sql.NullString
		inputDir    sql.NullString
		outputDir   sql.NullString
		status      string
		errMsg      sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.Backend,
		&run.Flavor,
		&subsets,
		&run.Codepoints,
		&inputDir,
		&outputDir,
		&status,
		&run.Total,
		&run.Written,
		&run.Skipped,
		&run.Failed,
		&run.NotStarted,
		&run.BytesIn,
		&run.BytesOut,
		&errMsg,
	); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	if subsets.String != "" {
		run.Subsets = strings.Split(subsets.String, ",")
	}
	run.InputDir = inputDir.String
	run.OutputDir = outputDir.String
	run.Status = Status(status)
	run.Error = errMsg.String
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
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
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
