package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

// ListParameters возвращает активные параметры, упорядоченные по категории и имени.
func (s *Storage) ListParameters(ctx context.Context) ([]models.Parameter, error) {
	const op = "storage.ListParameters"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, name, value, description, data_type, category, active, updated_at
			  FROM parameters
			  WHERE active = true
			  ORDER BY category, name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Parameter{}
	for rows.Next() {
		var p models.Parameter
		if err := rows.Scan(&p.ID, &p.ParameterName, &p.ParameterValue, &p.Description, &p.DataType,
			&p.Category, &p.Active, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateParameter добавляет параметр. Повтор имени даёт ErrDuplicate.
func (s *Storage) CreateParameter(ctx context.Context, p models.Parameter) (int, error) {
	const op = "storage.CreateParameter"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO parameters (name, value, description, data_type, category, active)
			  VALUES ($1, $2, $3, $4, $5, true)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, p.ParameterName, p.ParameterValue, p.Description,
		p.DataType, p.Category).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// UpdateParameter изменяет параметр.
func (s *Storage) UpdateParameter(ctx context.Context, id int, p models.Parameter) error {
	const op = "storage.UpdateParameter"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE parameters
			  SET name = $1, value = $2, description = $3, data_type = $4, category = $5,
			      updated_at = NOW()
			  WHERE id = $6 AND active = true`
	res, err := s.DB.ExecContext(ctx, query, p.ParameterName, p.ParameterValue, p.Description,
		p.DataType, p.Category, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivateParameter выключает параметр, запись остаётся в таблице.
func (s *Storage) DeactivateParameter(ctx context.Context, id int) error {
	const op = "storage.DeactivateParameter"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE parameters SET active = false, updated_at = NOW() WHERE id = $1 AND active = true`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ActiveSportYear возвращает активный спортивный год.
func (s *Storage) ActiveSportYear(ctx context.Context) (*models.SportYear, error) {
	const op = "storage.ActiveSportYear"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var y models.SportYear
	err := s.DB.QueryRowContext(ctx, `SELECT id, name, start_date, end_date, active
			  FROM sport_years
			  WHERE active = true
			  ORDER BY start_date DESC
			  LIMIT 1`).Scan(&y.ID, &y.AnnoName, &y.DataInizio, &y.DataFine, &y.Active)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &y, nil
}

// GetSportYear возвращает спортивный год по ID.
func (s *Storage) GetSportYear(ctx context.Context, id int) (*models.SportYear, error) {
	const op = "storage.GetSportYear"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var y models.SportYear
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date, active FROM sport_years WHERE id = $1`, id,
	).Scan(&y.ID, &y.AnnoName, &y.DataInizio, &y.DataFine, &y.Active)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &y, nil
}

// ListSportYears возвращает все спортивные годы, новые первыми.
func (s *Storage) ListSportYears(ctx context.Context) ([]models.SportYear, error) {
	const op = "storage.ListSportYears"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, active FROM sport_years ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.SportYear{}
	for rows.Next() {
		var y models.SportYear
		if err := rows.Scan(&y.ID, &y.AnnoName, &y.DataInizio, &y.DataFine, &y.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateSportYear добавляет спортивный год. Если он активный, остальные выключаются.
func (s *Storage) CreateSportYear(ctx context.Context, y models.SportYear) (int, error) {
	const op = "storage.CreateSportYear"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var newID int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if y.Active {
			if _, err := tx.ExecContext(ctx, `UPDATE sport_years SET active = false WHERE active = true`); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx, `INSERT INTO sport_years (name, start_date, end_date, active)
				  VALUES ($1, $2, $3, $4)
				  RETURNING id`, y.AnnoName, y.DataInizio, y.DataFine, y.Active).Scan(&newID)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}
