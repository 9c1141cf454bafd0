// Package sqlite persists review run history.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aireview/ai-pr-reviewer/internal/usecase/review"
)

// Store implements the review.Store port using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per completed review run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		repository TEXT NOT NULL,
		pr_number INTEGER NOT NULL,
		commit_sha TEXT NOT NULL,
		model TEXT NOT NULL,
		assessment TEXT NOT NULL,
		suggestions INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_pr ON runs(repository, pr_number, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores a completed review run.
func (s *Store) RecordRun(ctx context.Context, run review.Run) error {
	query := `
		INSERT INTO runs (run_id, repository, pr_number, commit_sha, model, assessment, suggestions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Repository,
		run.PRNumber,
		run.CommitSHA,
		run.Model,
		run.Assessment,
		run.Suggestions,
		run.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// LastRun returns the most recent run for the pull request, or nil when the
// pull request has never been reviewed.
func (s *Store) LastRun(ctx context.Context, repository string, prNumber int) (*review.Run, error) {
	query := `
		SELECT run_id, repository, pr_number, commit_sha, model, assessment, suggestions, created_at
		FROM runs
		WHERE repository = ? AND pr_number = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var run review.Run
	var createdAt int64

	err := s.db.QueryRowContext(ctx, query, repository, prNumber).Scan(
		&run.ID,
		&run.Repository,
		&run.PRNumber,
		&run.CommitSHA,
		&run.Model,
		&run.Assessment,
		&run.Suggestions,
		&createdAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	run.CreatedAt = time.Unix(createdAt, 0)
	return &run, nil
}

// ListRuns retrieves the most recent runs across all pull requests.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]review.Run, error) {
	query := `
		SELECT run_id, repository, pr_number, commit_sha, model, assessment, suggestions, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []review.Run
	for rows.Next() {
		var run review.Run
		var createdAt int64

		if err := rows.Scan(
			&run.ID,
			&run.Repository,
			&run.PRNumber,
			&run.CommitSHA,
			&run.Model,
			&run.Assessment,
			&run.Suggestions,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
