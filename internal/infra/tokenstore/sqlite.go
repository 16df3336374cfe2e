// Package tokenstore handles durable persistence of the session token.
// A single fixed key holds the token as plain text; absence of the key
// means no session.
package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.
)

// tokenKey is the fixed name the session token is stored under.
const tokenKey = "session_token"

// SQLite persists the token in a small key-value table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS kv (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get returns the persisted token, or "" when none is stored.
func (s *SQLite) Get(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE name = ?`, tokenKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Put stores the token, replacing any previous value.
func (s *SQLite) Put(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		tokenKey, token,
	)
	return err
}

// Delete clears the token. Deleting an absent token is not an error.
func (s *SQLite) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE name = ?`, tokenKey,
	)
	return err
}
