package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hardsub/internal/config"
)

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the jobs database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "jobs.db")
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
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

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
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

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Insert records a newly admitted job.
func (s *Store) Insert(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is required")
	}
	if strings.TrimSpace(job.ID) == "" {
		return errors.New("job id is required")
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = StatusQueued
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO burn_jobs (
            id, video_path, subtitle_path, script_tag, output_path, status,
            error_kind, error_message, stderr_tail, exit_code, render_millis,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.VideoPath, job.SubtitlePath, job.ScriptTag, job.OutputPath, job.Status,
		job.ErrorKind, job.ErrorMessage, job.StderrTail, job.ExitCode, job.RenderMillis,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// MarkRunning transitions a queued job to running and stamps its start time.
func (s *Store) MarkRunning(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`UPDATE burn_jobs SET status = ?, started_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		StatusRunning, now, now, id, StatusQueued,
	)
	if err != nil {
		return fmt.Errorf("mark running: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark running: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark running: job %s is not queued", id)
	}
	return nil
}

// MarkTerminal records a job's final state and diagnostics. Terminal states
// are final: a job already in one is never updated again.
func (s *Store) MarkTerminal(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is required")
	}
	if !IsTerminalStatus(job.Status) {
		return fmt.Errorf("mark terminal: %q is not a terminal status", job.Status)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`UPDATE burn_jobs
         SET status = ?, error_kind = ?, error_message = ?, stderr_tail = ?,
             exit_code = ?, render_millis = ?, finished_at = ?, updated_at = ?
         WHERE id = ? AND status NOT IN (?, ?, ?)`,
		job.Status, job.ErrorKind, job.ErrorMessage, job.StderrTail,
		job.ExitCode, job.RenderMillis, now, now,
		job.ID, StatusSucceeded, StatusFailed, StatusTimedOut,
	)
	if err != nil {
		return fmt.Errorf("mark terminal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark terminal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark terminal: job %s is already terminal or unknown", job.ID)
	}
	return nil
}

const jobColumns = `id, video_path, subtitle_path, script_tag, output_path, status,
    error_kind, error_message, stderr_tail, exit_code, render_millis,
    created_at, updated_at, started_at, finished_at`

// GetByID fetches a single job, or nil when unknown.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM burn_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns jobs in submission order, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM burn_jobs`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Health aggregates job counts per state.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM burn_jobs GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("job health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan job health: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusQueued:
			summary.Queued = count
		case StatusRunning:
			summary.Running = count
		case StatusSucceeded:
			summary.Succeeded = count
		case StatusFailed:
			summary.Failed = count
		case StatusTimedOut:
			summary.TimedOut = count
		}
	}
	return summary, rows.Err()
}

// ClearTerminal removes finished jobs, returning the number deleted.
func (s *Store) ClearTerminal(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`DELETE FROM burn_jobs WHERE status IN (?, ?, ?)`,
		StatusSucceeded, StatusFailed, StatusTimedOut,
	)
	if err != nil {
		return 0, fmt.Errorf("clear terminal jobs: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var createdAt, updatedAt string
	var startedAt, finishedAt sql.NullString
	err := row.Scan(
		&job.ID, &job.VideoPath, &job.SubtitlePath, &job.ScriptTag, &job.OutputPath, &job.Status,
		&job.ErrorKind, &job.ErrorMessage, &job.StderrTail, &job.ExitCode, &job.RenderMillis,
		&createdAt, &updatedAt, &startedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}
	job.CreatedAt = parseTimestamp(createdAt)
	job.UpdatedAt = parseTimestamp(updatedAt)
	if startedAt.Valid {
		at := parseTimestamp(startedAt.String)
		job.StartedAt = &at
	}
	if finishedAt.Valid {
		at := parseTimestamp(finishedAt.String)
		job.FinishedAt = &at
	}
	return &job, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return parsed
}
