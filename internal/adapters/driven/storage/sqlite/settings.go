package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// SetSetting stores or replaces a settings value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// GetSetting retrieves a settings value, or domain.ErrNotFound.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	row := s.db.QueryRowContext(ctx, "SELECT value FROM app_settings WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}
