package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ofarouk/deskhub/internal/repository"
)

// SettingsRepository persists the opaque settings blob in a single row
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the raw settings JSON
func (r *SettingsRepository) Get(ctx context.Context) (string, error) {
	var raw string
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return raw, nil
}

// Save upserts the raw settings JSON
func (r *SettingsRepository) Save(ctx context.Context, raw string) error {
	query := `
		INSERT INTO settings (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`
	if _, err := r.db.conn(ctx).ExecContext(ctx, query, raw); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
