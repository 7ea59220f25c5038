// Package store persists comparison runs in SQLite so past diffs can be
// listed and re-rendered without re-uploading the configs. Aligned rows are
// stored as a JSON document per run; the table only carries the columns
// needed for listing and lookup.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/configlens/internal/logging"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted comparison.
type Run struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"`
	TargetName string    `json:"target_name"`
	Platform   string    `json:"platform"`
	Normalized bool      `json:"normalized"`
	RowCount   int       `json:"row_count"`
	DiffCount  int       `json:"diff_count"`
	RowsJSON   string    `json:"rows_json,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store wraps the history database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore applies pragmas and the schema and returns a ready Store.
func NewStore(db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("Store")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// SaveRun inserts a run and returns its generated id.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	id := run.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_name, target_name, platform, normalized, row_count, diff_count, rows_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.SourceName, run.TargetName, run.Platform,
		boolToInt(run.Normalized), run.RowCount, run.DiffCount, run.RowsJSON,
		createdAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	s.logger.Debug("run saved", logging.Field{Key: "run_id", Value: id})
	return id, nil
}

// GetRun loads a run with its row document.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_name, target_name, platform, normalized, row_count, diff_count, rows_json, created_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns run summaries newest first, without the row documents.
// limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, source_name, target_name, platform, normalized, row_count, diff_count, '', created_at
		FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run. Missing ids return ErrRunNotFound.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func scanRun(scan func(...any) error, withRows bool) (Run, error) {
	var run Run
	var normalized int
	var createdAt int64
	var rowsJSON sql.NullString
	err := scan(&run.ID, &run.SourceName, &run.TargetName, &run.Platform,
		&normalized, &run.RowCount, &run.DiffCount, &rowsJSON, &createdAt)
	if err != nil {
		return Run{}, err
	}
	run.Normalized = normalized != 0
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	if withRows {
		run.RowsJSON = rowsJSON.String
	}
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
