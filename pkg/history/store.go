// Package history persists one record per execution session in a local
// SQLite database, so a server restart does not lose the run log.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed run log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store bound to the given database path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &Store{path: path}, nil
}

// Init opens the database, enables WAL mode, and runs migrations.
func (s *Store) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return s.migrate()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RecordStart inserts a running session record.
func (s *Store) RecordStart(ctx context.Context, id string, kind RunKind) error {
	query := `
		INSERT INTO runs (id, kind, status, return_code, started_at)
		VALUES (?, ?, ?, 0, ?)`
	_, err := s.db.ExecContext(ctx, query, id, string(kind), string(RunStatusRunning), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

// RecordFinish marks a session as completed or failed.
func (s *Store) RecordFinish(ctx context.Context, id string, status RunStatus, returnCode int, runErr *string) error {
	query := `
		UPDATE runs
		SET status = ?, return_code = ?, error = ?, completed_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, string(status), returnCode, runErr, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun fetches one run record.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT id, kind, status, return_code, error, started_at, completed_at
		FROM runs WHERE id = ?`
	run := &Run{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Kind, &run.Status, &run.ReturnCode,
		&run.Error, &run.StartedAt, &run.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, kind, status, return_code, error, started_at, completed_at
		FROM runs ORDER BY started_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID, &run.Kind, &run.Status, &run.ReturnCode,
			&run.Error, &run.StartedAt, &run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
