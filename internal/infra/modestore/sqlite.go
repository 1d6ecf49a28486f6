package modestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// settingKey is the inference_setting row holding the preference.
const settingKey = "inference_mode"

// SQLiteStore keeps the preference in the inference_setting table.
// The database must already be migrated.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a store over db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// LoadMode returns the stored value, if any.
func (s *SQLiteStore) LoadMode(ctx context.Context) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM inference_setting WHERE key = ?`, settingKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("modestore: load %s: %w", settingKey, err)
	}
	return value, true, nil
}

// SaveMode upserts the preference.
func (s *SQLiteStore) SaveMode(ctx context.Context, mode string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inference_setting (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at`,
		settingKey, mode,
	)
	if err != nil {
		return fmt.Errorf("modestore: save %s: %w", settingKey, err)
	}
	return nil
}
