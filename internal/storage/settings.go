package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

// GetSettings возвращает сохранённые настройки или ErrNotFound.
func (s *Storage) GetSettings(ctx context.Context) (*models.Settings, error) {
	const op = "storage.GetSettings"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var raw []byte
	if err := s.DB.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	var st models.Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st.IsDefault = false
	return &st, nil
}

// SaveSettings сохраняет настройки целиком.
func (s *Storage) SaveSettings(ctx context.Context, st models.Settings) error {
	const op = "storage.SaveSettings"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	st.IsDefault = false
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO settings (id, data, updated_at) VALUES (1, $1, NOW())
			  ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSettings удаляет сохранённые настройки, после чего действуют значения по умолчанию.
func (s *Storage) DeleteSettings(ctx context.Context) error {
	const op = "storage.DeleteSettings"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM settings WHERE id = 1`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
