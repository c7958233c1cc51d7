// Package history persists executed cells and their captured output to a
// SQLite database, the way notebook kernels keep their history files.
// History failures are never fatal to execution.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one executed cell.
type Entry struct {
	ID       int64
	Source   string
	Stdout   string
	Stderr   string
	Started  time.Time
	Finished time.Time
}

// Store is the SQLite-backed execution history.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes the history database at path, creating the directory
// and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("history: creating directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening database: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		stdout TEXT NOT NULL DEFAULT '',
		stderr TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_executions_started ON executions(started_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("history: initializing schema: %w", err)
	}
	return nil
}

// Append records one execution.
func (s *Store) Append(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO executions (source, stdout, stderr, started_at, finished_at) VALUES (?, ?, ?, ?, ?)`,
		e.Source, e.Stdout, e.Stderr, e.Started.UTC(), e.Finished.UTC(),
	)
	return err
}

// Recent returns the last n executions, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, source, stdout, stderr, started_at, finished_at
		 FROM executions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Source, &e.Stdout, &e.Stderr, &e.Started, &e.Finished); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
