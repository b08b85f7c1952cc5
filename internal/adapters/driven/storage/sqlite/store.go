// Package sqlite provides SQLite-backed storage adapters.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/operand-hq/crewd/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ExecutionStore = (*Store)(nil)

// Store is a SQLite-backed execution history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.crewd/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".crewd", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores an execution record.
func (s *Store) Save(ctx context.Context, record domain.ExecutionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	var rating sql.NullInt64
	var comment sql.NullString
	if record.Feedback != nil {
		rating = sql.NullInt64{Int64: int64(record.Feedback.Rating), Valid: true}
		comment = sql.NullString{String: record.Feedback.Comment, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO executions (id, department, agent_name, input, output, status, feedback_rating, feedback_comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			department = excluded.department,
			agent_name = excluded.agent_name,
			input = excluded.input,
			output = excluded.output,
			status = excluded.status,
			feedback_rating = excluded.feedback_rating,
			feedback_comment = excluded.feedback_comment
	`, record.ID, record.Department, record.AgentName, record.Input, record.Output,
		record.Status, rating, comment, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving execution: %w", err)
	}
	return nil
}

// Recent returns the most recent executions for a department, newest first.
// An empty department returns executions across all departments.
func (s *Store) Recent(ctx context.Context, department string, limit int) ([]domain.ExecutionRecord, error) {
	return s.query(ctx, department, limit, false)
}

// RecentWithFeedback returns the most recent rated executions for a department,
// newest first.
func (s *Store) RecentWithFeedback(ctx context.Context, department string, limit int) ([]domain.ExecutionRecord, error) {
	return s.query(ctx, department, limit, true)
}

// query runs the shared select for Recent and RecentWithFeedback.
func (s *Store) query(ctx context.Context, department string, limit int, ratedOnly bool) ([]domain.ExecutionRecord, error) {
	q := `
		SELECT id, department, agent_name, input, output, status, feedback_rating, feedback_comment, created_at
		FROM executions`
	var conditions []string
	var args []any

	if department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, department)
	}
	if ratedOnly {
		conditions = append(conditions, "feedback_rating IS NOT NULL")
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	var records []domain.ExecutionRecord
	for rows.Next() {
		var rec domain.ExecutionRecord
		var rating sql.NullInt64
		var comment sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Department, &rec.AgentName, &rec.Input, &rec.Output,
			&rec.Status, &rating, &comment, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning execution: %w", err)
		}
		if rating.Valid {
			rec.Feedback = &domain.Feedback{
				Rating:  int(rating.Int64),
				Comment: comment.String,
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading executions: %w", err)
	}
	return records, nil
}

// SetFeedback attaches CEO feedback to an execution.
func (s *Store) SetFeedback(ctx context.Context, id string, feedback domain.Feedback) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE executions SET feedback_rating = ?, feedback_comment = ? WHERE id = ?
	`, feedback.Rating, feedback.Comment, id)
	if err != nil {
		return fmt.Errorf("setting feedback: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking feedback update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
