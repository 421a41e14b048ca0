package database

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteTokenStore is a SQLite implementation of the music.TokenStore
// interface. One row per user, upserted on re-auth.
type SqliteTokenStore struct {
	db *sql.DB
}

// NewSqliteTokenStore creates a new SqliteTokenStore.
func NewSqliteTokenStore(path string) (*SqliteTokenStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteTokenStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_tokens (
			user_id INTEGER PRIMARY KEY,
			token TEXT NOT NULL,
			updated_at TEXT DEFAULT (datetime('now'))
		);
	`)
	return err
}

// SetToken stores or replaces the user's token.
func (s *SqliteTokenStore) SetToken(ctx context.Context, userID int64, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_tokens (user_id, token, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`, userID, token)
	return err
}

// GetToken returns the user's token, or "" when no token is stored.
func (s *SqliteTokenStore) GetToken(ctx context.Context, userID int64) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT token FROM user_tokens WHERE user_id = ?`, userID).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// HasToken reports whether the user has a stored token.
func (s *SqliteTokenStore) HasToken(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM user_tokens WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveToken deletes the user's token if present.
func (s *SqliteTokenStore) RemoveToken(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = ?`, userID)
	return err
}

// Close closes the underlying database.
func (s *SqliteTokenStore) Close() error {
	return s.db.Close()
}
