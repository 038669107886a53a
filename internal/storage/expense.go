package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

// CreateExpense сохраняет расход.
func (s *Storage) CreateExpense(ctx context.Context, e models.Expense) (int, error) {
	const op = "storage.CreateExpense"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO expenses (expense_date, document_number, supplier, description,
			      category, amount, payment_type)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, e.DataSpesa, e.NumeroDocumento, e.Fornitore,
		e.Descrizione, e.Categoria, e.Importo, e.TipoPagamento).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListExpenses возвращает расходы за период, новые первыми.
func (s *Storage) ListExpenses(ctx context.Context, r models.DateRange) ([]models.Expense, error) {
	const op = "storage.ListExpenses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, expense_date, document_number, supplier, description, category, amount, payment_type
			  FROM expenses
			  WHERE ($1::date IS NULL OR expense_date >= $1)
			    AND ($2::date IS NULL OR expense_date <= $2)
			  ORDER BY expense_date DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.DataSpesa, &e.NumeroDocumento, &e.Fornitore, &e.Descrizione,
			&e.Categoria, &e.Importo, &e.TipoPagamento); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteExpense удаляет расход.
func (s *Storage) DeleteExpense(ctx context.Context, id int) error {
	const op = "storage.DeleteExpense"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
