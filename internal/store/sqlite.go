// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides interview/turn/connection persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Wait on locks instead of failing with SQLITE_BUSY when concurrent
	// appends land on separate pool connections
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS interviews (
			user_id    TEXT NOT NULL,
			id         TEXT NOT NULL,
			role       TEXT NOT NULL,
			seniority  TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,

			PRIMARY KEY (user_id, id),
			CHECK (role IN ('backend', 'frontend', 'devops')),
			CHECK (seniority IN ('junior', 'senior', 'techlead', 'architect'))
		);

		CREATE INDEX IF NOT EXISTS idx_interviews_id ON interviews(id);

		-- the autoincrement id keeps insertion order; replay orders by (seq, id)
		-- so two turns written in the same millisecond read back in append order
		CREATE TABLE IF NOT EXISTS turns (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			interview_id TEXT NOT NULL,
			seq          INTEGER NOT NULL,
			role         TEXT NOT NULL,
			content      TEXT NOT NULL,

			CHECK (role IN ('user', 'assistant'))
		);

		CREATE INDEX IF NOT EXISTS idx_turns_interview_seq
			ON turns(interview_id, seq);

		CREATE TABLE IF NOT EXISTS connections (
			id           TEXT PRIMARY KEY,
			connected_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// CreateInterview creates a new interview configuration record.
// Returns ErrDuplicateInterview if a record already exists for the same
// user and interview id.
func (s *SQLiteStore) CreateInterview(ctx context.Context, interview *Interview) error {
	userID := interview.UserID
	if userID == "" {
		userID = AnonymousUser
	}

	query := `
		INSERT INTO interviews (user_id, id, role, seniority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		userID,
		interview.ID,
		interview.Role,
		interview.Seniority,
		interview.CreatedAt,
		interview.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateInterview
		}
		return fmt.Errorf("inserting interview: %w", err)
	}

	s.logger.Debug("created interview", "id", interview.ID, "role", interview.Role, "seniority", interview.Seniority)
	return nil
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// GetInterview retrieves an interview configuration by user and interview id.
// An empty userID is treated as the anonymous identity.
// Returns ErrNotFound if no configuration record exists.
func (s *SQLiteStore) GetInterview(ctx context.Context, userID, interviewID string) (*Interview, error) {
	if userID == "" {
		userID = AnonymousUser
	}

	query := `
		SELECT user_id, id, role, seniority, created_at, updated_at
		FROM interviews
		WHERE user_id = ? AND id = ?
	`

	var interview Interview
	err := s.db.QueryRowContext(ctx, query, userID, interviewID).Scan(
		&interview.UserID,
		&interview.ID,
		&interview.Role,
		&interview.Seniority,
		&interview.CreatedAt,
		&interview.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying interview: %w", err)
	}

	return &interview, nil
}

// GetHistory retrieves all turns for an interview in ascending seq order,
// insertion order breaking ties. Returns an empty slice (not an error) if
// the interview has no turns yet.
func (s *SQLiteStore) GetHistory(ctx context.Context, interviewID string) ([]*Turn, error) {
	query := `
		SELECT interview_id, seq, role, content
		FROM turns
		WHERE interview_id = ?
		ORDER BY seq ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, interviewID)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []*Turn
	for rows.Next() {
		var turn Turn
		if err := rows.Scan(&turn.InterviewID, &turn.Seq, &turn.Role, &turn.Content); err != nil {
			return nil, fmt.Errorf("scanning turn row: %w", err)
		}
		turns = append(turns, &turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turn rows: %w", err)
	}

	return turns, nil
}

// AppendTurns appends one or more turns to an interview's history.
// The append is all-or-nothing: either every turn is written or none are.
// Existing turns are never rewritten. No per-interview lock is taken, so
// concurrent appends for the same interview interleave by arrival order.
func (s *SQLiteStore) AppendTurns(ctx context.Context, interviewID string, turns []*Turn) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning append transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO turns (interview_id, seq, role, content)
		VALUES (?, ?, ?, ?)
	`

	for _, turn := range turns {
		if _, err := tx.ExecContext(ctx, query, interviewID, turn.Seq, turn.Role, turn.Content); err != nil {
			return fmt.Errorf("inserting turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append: %w", err)
	}

	s.logger.Debug("appended turns", "interview_id", interviewID, "count", len(turns))
	return nil
}

// AddConnection records a live channel connection.
// INSERT OR REPLACE keeps reconnects with a reused connection id from failing.
func (s *SQLiteStore) AddConnection(ctx context.Context, conn *Connection) error {
	query := `
		INSERT OR REPLACE INTO connections (id, connected_at)
		VALUES (?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		conn.ID,
		conn.ConnectedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting connection: %w", err)
	}

	s.logger.Debug("added connection", "id", conn.ID)
	return nil
}

// RemoveConnection deletes a connection record. Removing an absent entry is
// not an error: already-disconnected is a valid state, not a fault.
func (s *SQLiteStore) RemoveConnection(ctx context.Context, connectionID string) error {
	query := `DELETE FROM connections WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, connectionID); err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}

	s.logger.Debug("removed connection", "id", connectionID)
	return nil
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
