package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

var numberedExpenses = `WITH numbered_expenses AS (
	SELECT e.*, ROW_NUMBER() OVER (
		PARTITION BY ` + fmt.Sprintf(sportyear.StartYearSQL, "e.expense_date") + `
		ORDER BY e.expense_date, e.id
	) AS numero
	FROM expenses e
)`

// IncomeMovements возвращает квитанции за период как поступления prima nota.
func (s *Storage) IncomeMovements(ctx context.Context, r models.DateRange) ([]models.Movement, error) {
	const op = "storage.IncomeMovements"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := numberedReceipts + `
			  SELECT n.id, n.receipt_date, n.numero, a.name, m.last_name || ' ' || m.first_name,
			      COALESCE(f.name, ''), n.payment_type, n.amount
			  FROM numbered n
			  JOIN members m ON m.id = n.member_id
			  JOIN activities a ON a.id = n.activity_id
			  LEFT JOIN federations f ON f.id = a.federation_id
			  WHERE ($1::date IS NULL OR n.receipt_date >= $1)
			    AND ($2::date IS NULL OR n.receipt_date <= $2)
			  ORDER BY n.receipt_date, n.numero`
	return s.queryMovements(ctx, op, models.MovementIncome, query, r.From, r.To)
}

// ExpenseMovements возвращает расходы за период как движения prima nota с отрицательной суммой.
func (s *Storage) ExpenseMovements(ctx context.Context, r models.DateRange) ([]models.Movement, error) {
	const op = "storage.ExpenseMovements"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := numberedExpenses + `
			  SELECT id, expense_date, numero, description, supplier, category, payment_type, -amount
			  FROM numbered_expenses
			  WHERE ($1::date IS NULL OR expense_date >= $1)
			    AND ($2::date IS NULL OR expense_date <= $2)
			  ORDER BY expense_date, numero`
	return s.queryMovements(ctx, op, models.MovementExpense, query, r.From, r.To)
}

func (s *Storage) queryMovements(ctx context.Context, op, kind, query string, args ...any) ([]models.Movement, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Movement{}
	for rows.Next() {
		var (
			m           models.Movement
			paymentType int
		)
		if err := rows.Scan(&m.ID, &m.Data, &m.Numero, &m.Descrizione, &m.Controparte, &m.Categoria,
			&paymentType, &m.Importo); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.Tipo = kind
		m.TipoPagamento = models.PaymentTypeName(paymentType)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MonthlyIncome возвращает суммы квитанций по месяцам в интервале [from, to].
func (s *Storage) MonthlyIncome(ctx context.Context, from, to time.Time) ([]models.MonthAmount, error) {
	const op = "storage.MonthlyIncome"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT EXTRACT(YEAR FROM receipt_date)::int, EXTRACT(MONTH FROM receipt_date)::int,
			      COALESCE(SUM(amount), 0), COUNT(*)
			  FROM receipts
			  WHERE receipt_date BETWEEN $1 AND $2
			  GROUP BY 1, 2
			  ORDER BY 1, 2`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.MonthAmount
	for rows.Next() {
		var m models.MonthAmount
		if err := rows.Scan(&m.Year, &m.Month, &m.Amount, &m.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ActivityIncome возвращает число и сумму квитанций по активностям.
// Нулевые from и to не ограничивают период.
func (s *Storage) ActivityIncome(ctx context.Context, from, to time.Time) ([]models.ActivityAmount, error) {
	const op = "storage.ActivityIncome"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var fromArg, toArg any
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}

	query := `SELECT a.id, a.name, COALESCE(SUM(r.amount), 0), COUNT(r.id)
			  FROM activities a
			  JOIN receipts r ON r.activity_id = a.id
			  WHERE ($1::date IS NULL OR r.receipt_date >= $1)
			    AND ($2::date IS NULL OR r.receipt_date <= $2)
			  GROUP BY a.id, a.name
			  ORDER BY 3 DESC, a.name`
	rows, err := s.DB.QueryContext(ctx, query, fromArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ActivityAmount
	for rows.Next() {
		var a models.ActivityAmount
		if err := rows.Scan(&a.ActivityID, &a.Name, &a.Amount, &a.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
