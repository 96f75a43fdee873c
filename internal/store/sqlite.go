package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amishk599/resumelens/internal/model"
)

// Ensure SQLiteStore implements model.HistoryStore.
var _ model.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore records settled analysis results in a SQLite database.
// Only result metadata is stored; resume contents never are.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// analyses table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS analyses (
		id          TEXT PRIMARY KEY,
		action      TEXT NOT NULL,
		resume_name TEXT NOT NULL,
		status      TEXT NOT NULL,
		summary     TEXT NOT NULL DEFAULT '',
		similarity  REAL,
		created_at  DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating analyses table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts entry, assigning an ID and timestamp when they are unset.
func (s *SQLiteStore) Record(entry model.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var similarity sql.NullFloat64
	if entry.Similarity != nil {
		similarity = sql.NullFloat64{Float64: *entry.Similarity, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO analyses (id, action, resume_name, status, summary, similarity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Action), entry.ResumeName, string(entry.Status), entry.Summary, similarity, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording analysis %s: %w", entry.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(limit int) ([]model.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, action, resume_name, status, summary, similarity, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var (
			e          model.HistoryEntry
			action     string
			status     string
			similarity sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &action, &e.ResumeName, &status, &e.Summary, &similarity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		e.Action = model.Action(action)
		e.Status = model.ResultStatus(status)
		if similarity.Valid {
			v := similarity.Float64
			e.Similarity = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return entries, nil
}

// Cleanup deletes entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UTC()
	_, err := s.db.Exec("DELETE FROM analyses WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up analyses older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
