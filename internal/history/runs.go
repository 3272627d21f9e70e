package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one persisted classification run.
type Run struct {
	ID                int64
	RunID             string
	CreatedAt         time.Time
	WordCount         int
	Successful        int
	Failed            int
	PrimaryBatches    int
	FailureBatches    int
	IndividualRetries int
	TotalAPICalls     int
	APIEfficiency     float64
	ReportPath        string
	ReportJSON        string
}

// ErrRunNotFound indicates the requested run does not exist.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, run_id, created_at, word_count, successful, failed,
    primary_batches, failure_batches, individual_retries, total_api_calls,
    api_efficiency, report_path, report_json`

// SaveRun inserts a completed run. The run's CreatedAt defaults to now when
// unset, and ID is populated on return.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is required")
	}
	if run.RunID == "" {
		return errors.New("run id is required")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            run_id, created_at, word_count, successful, failed,
            primary_batches, failure_batches, individual_retries,
            total_api_calls, api_efficiency, report_path, report_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		createdAt.UTC().Format(time.RFC3339Nano),
		run.WordCount,
		run.Successful,
		run.Failed,
		run.PrimaryBatches,
		run.FailureBatches,
		run.IndividualRetries,
		run.TotalAPICalls,
		run.APIEfficiency,
		nullableString(run.ReportPath),
		run.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	run.ID = id
	run.CreatedAt = createdAt
	return nil
}

// GetByRunID returns the run with the given identifier.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// MostRecent returns the latest run, or ErrRunNotFound when history is empty.
func (s *Store) MostRecent(ctx context.Context) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, id DESC LIMIT 1")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// List returns runs newest first, capped to limit when limit is positive.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Clear removes every stored run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.execWithRetry(ctx, "DELETE FROM runs"); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		createdAt  string
		reportPath sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&run.RunID,
		&createdAt,
		&run.WordCount,
		&run.Successful,
		&run.Failed,
		&run.PrimaryBatches,
		&run.FailureBatches,
		&run.IndividualRetries,
		&run.TotalAPICalls,
		&run.APIEfficiency,
		&reportPath,
		&run.ReportJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = parsed
	run.ReportPath = reportPath.String
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
