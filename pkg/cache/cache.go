// Package cache is the durable local record of the last-known-good
// snapshot, the middle rung of the fallback chain.
package cache

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/salehq/activityboard/pkg/models"
)

// ErrEmpty covers both "never saved" and "saved but unreadable": a
// malformed cached payload must never raise to the caller.
var ErrEmpty = errors.New("local cache is empty")

const snapshotName = "current"

type Store struct {
	sql *sql.DB
}

func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS app_snapshot (
  name     TEXT PRIMARY KEY,
  payload  TEXT NOT NULL,
  saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
	`); err != nil {
		return nil, err
	}
	return &Store{sql: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Save mirrors the whole snapshot, overwriting the previous copy. No merge.
func (s *Store) Save(ctx context.Context, snap *models.Snapshot) error {
	payload, err := snap.Encode()
	if err != nil {
		return err
	}
	return s.SaveDocument(ctx, snapshotName, payload)
}

// Load returns the cached snapshot, or ErrEmpty when there is none or the
// stored payload no longer parses.
func (s *Store) Load(ctx context.Context) (*models.Snapshot, error) {
	payload, err := s.LoadDocument(ctx, snapshotName)
	if err != nil {
		return nil, err
	}
	snap, err := models.DecodeSnapshot(payload)
	if err != nil {
		return nil, ErrEmpty
	}
	return snap, nil
}

// SaveDocument stores a raw named document (also used by the embedded
// serve endpoint, which keeps its published copy under its own name).
func (s *Store) SaveDocument(ctx context.Context, name string, payload []byte) error {
	_, err := s.sql.ExecContext(ctx, `
INSERT INTO app_snapshot(name, payload, saved_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, saved_at = CURRENT_TIMESTAMP
	`, name, string(payload))
	return err
}

func (s *Store) LoadDocument(ctx context.Context, name string) ([]byte, error) {
	var payload string
	err := s.sql.QueryRowContext(ctx, "SELECT payload FROM app_snapshot WHERE name = ?", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// SetMeta stores a small key/value item, e.g. the remembered remote file id.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.sql.ExecContext(ctx, `
INSERT INTO meta(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetMeta returns the stored value, or "" when the key was never set.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.sql.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteMeta removes a key, used when a sign-out tears down session state.
func (s *Store) DeleteMeta(ctx context.Context, key string) error {
	_, err := s.sql.ExecContext(ctx, "DELETE FROM meta WHERE key = ?", key)
	return err
}
