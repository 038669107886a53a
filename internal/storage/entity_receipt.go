package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

// CreateEntityReceipt сохраняет квитанцию учреждения.
func (s *Storage) CreateEntityReceipt(ctx context.Context, r models.EntityReceipt) (int, error) {
	const op = "storage.CreateEntityReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO entity_receipts (receipt_date, entity, amount, description)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, r.DataRicevuta, r.Ente, r.Importo, r.Descrizione).
		Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListEntityReceipts возвращает квитанции учреждений за период.
// ascending задаёт порядок по (дата, id): для prima nota по возрастанию, для списка по убыванию.
func (s *Storage) ListEntityReceipts(ctx context.Context, r models.DateRange, ascending bool) ([]models.EntityReceipt, error) {
	const op = "storage.ListEntityReceipts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	order := "receipt_date DESC, id DESC"
	if ascending {
		order = "receipt_date, id"
	}
	query := `SELECT id, receipt_date, entity, amount, description
			  FROM entity_receipts
			  WHERE ($1::date IS NULL OR receipt_date >= $1)
			    AND ($2::date IS NULL OR receipt_date <= $2)
			  ORDER BY ` + order
	rows, err := s.DB.QueryContext(ctx, query, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.EntityReceipt{}
	for rows.Next() {
		var e models.EntityReceipt
		if err := rows.Scan(&e.ID, &e.DataRicevuta, &e.Ente, &e.Importo, &e.Descrizione); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetEntityReceipt возвращает квитанцию учреждения по ID.
func (s *Storage) GetEntityReceipt(ctx context.Context, id int) (*models.EntityReceipt, error) {
	const op = "storage.GetEntityReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var e models.EntityReceipt
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, receipt_date, entity, amount, description FROM entity_receipts WHERE id = $1`, id,
	).Scan(&e.ID, &e.DataRicevuta, &e.Ente, &e.Importo, &e.Descrizione)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &e, nil
}

// UpdateEntityReceipt изменяет квитанцию учреждения.
func (s *Storage) UpdateEntityReceipt(ctx context.Context, id int, r models.EntityReceipt) error {
	const op = "storage.UpdateEntityReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE entity_receipts
			  SET receipt_date = $1, entity = $2, amount = $3, description = $4
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query, r.DataRicevuta, r.Ente, r.Importo, r.Descrizione, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteEntityReceipt удаляет квитанцию учреждения.
func (s *Storage) DeleteEntityReceipt(ctx context.Context, id int) error {
	const op = "storage.DeleteEntityReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM entity_receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
