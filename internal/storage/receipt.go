package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// numberedReceipts нумерует все квитанции внутри спортивного года по (дата, id).
// Фильтры применяются снаружи, поэтому номер не зависит от выбранного периода.
var numberedReceipts = `WITH numbered AS (
	SELECT r.*, ROW_NUMBER() OVER (
		PARTITION BY ` + fmt.Sprintf(sportyear.StartYearSQL, "r.receipt_date") + `
		ORDER BY r.receipt_date, r.id
	) AS numero
	FROM receipts r
)`

const receiptColumns = `n.id, n.activity_id, n.member_id, n.amount, n.collected, n.payment_type,
	n.membership_fee, n.fee_expiry, n.receipt_date, n.payment_due, n.numero,
	m.first_name, m.last_name, m.tax_code, a.name`

const receiptJoins = ` FROM numbered n
	JOIN members m ON m.id = n.member_id
	JOIN activities a ON a.id = n.activity_id`

func receiptDest(r *models.ReceiptListItem) []any {
	return []any{&r.ID, &r.AttivitaID, &r.SocioID, &r.ImportoRicevuta, &r.ImportoIncassato,
		&r.TipologiaPagamento, &r.QuotaAss, &r.ScadenzaQuota, &r.DataRicevuta,
		&r.ScadenzaPagamento, &r.Numero, &r.Nome, &r.Cognome, &r.CodiceFiscale, &r.NomeAttivita}
}

func receiptArgs(r models.Receipt) []any {
	return []any{r.AttivitaID, r.SocioID, r.ImportoRicevuta, r.ImportoIncassato,
		r.TipologiaPagamento, r.QuotaAss, r.ScadenzaQuota, r.DataRicevuta, r.ScadenzaPagamento}
}

// CreateReceipt сохраняет квитанцию. Несуществующие член клуба или активность
// дают ErrInvalidReference.
func (s *Storage) CreateReceipt(ctx context.Context, r models.Receipt) (int, error) {
	const op = "storage.CreateReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO receipts (activity_id, member_id, amount, collected, payment_type,
			      membership_fee, fee_expiry, receipt_date, payment_due)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, receiptArgs(r)...).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// UpdateReceipt изменяет квитанцию.
func (s *Storage) UpdateReceipt(ctx context.Context, id int, r models.Receipt) error {
	const op = "storage.UpdateReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE receipts
			  SET activity_id = $1, member_id = $2, amount = $3, collected = $4, payment_type = $5,
			      membership_fee = $6, fee_expiry = $7, receipt_date = $8, payment_due = $9
			  WHERE id = $10`
	res, err := s.DB.ExecContext(ctx, query, append(receiptArgs(r), id)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteReceipt аннулирует квитанцию физическим удалением.
func (s *Storage) DeleteReceipt(ctx context.Context, id int) error {
	const op = "storage.DeleteReceipt"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListReceiptsRange возвращает квитанции за период с прогрессивным номером,
// отсортированные по дате и номеру. PaymentType > 0 фильтрует по типу оплаты.
func (s *Storage) ListReceiptsRange(ctx context.Context, f models.ReceiptFilter) ([]models.ReceiptListItem, error) {
	const op = "storage.ListReceiptsRange"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := numberedReceipts + ` SELECT ` + receiptColumns + receiptJoins + `
			  WHERE n.receipt_date BETWEEN $1 AND $2
			    AND ($3::int = 0 OR n.payment_type = $3)
			  ORDER BY n.receipt_date, n.numero`
	return s.queryReceipts(ctx, op, query, f.From, f.To, f.PaymentType)
}

// ListReceiptsByMember возвращает квитанции члена клуба, новые первыми.
func (s *Storage) ListReceiptsByMember(ctx context.Context, memberID int) ([]models.ReceiptListItem, error) {
	const op = "storage.ListReceiptsByMember"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := numberedReceipts + ` SELECT ` + receiptColumns + receiptJoins + `
			  WHERE n.member_id = $1
			  ORDER BY n.receipt_date DESC, n.id DESC`
	return s.queryReceipts(ctx, op, query, memberID)
}

func (s *Storage) queryReceipts(ctx context.Context, op, query string, args ...any) ([]models.ReceiptListItem, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.ReceiptListItem{}
	for rows.Next() {
		var item models.ReceiptListItem
		if err := rows.Scan(receiptDest(&item)...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReceiptForPrint возвращает квитанцию члена клуба с данными для печати.
// Суммы в евро и nFattura заполняет сервис.
func (s *Storage) ReceiptForPrint(ctx context.Context, memberID, receiptID int) (*models.ReceiptPrint, error) {
	const op = "storage.ReceiptForPrint"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := numberedReceipts + ` SELECT ` + receiptColumns + `, m.birth_date, m.birth_town,
			      m.res_town, m.res_street, m.res_zip, m.is_full_member, m.is_registered, ms.card_number` +
		receiptJoins + `
			  LEFT JOIN LATERAL (
			      SELECT card_number FROM memberships
			      WHERE member_id = n.member_id AND active = true
			      ORDER BY enrollment_date DESC, id DESC
			      LIMIT 1
			  ) ms ON true
			  WHERE n.id = $1 AND n.member_id = $2`

	var (
		p                    models.ReceiptPrint
		fullMember, register int
	)
	dest := append(receiptDest(&p.ReceiptListItem), &p.DataNascita, &p.ComuneNascita,
		&p.ComuneResidenza, &p.ViaResidenza, &p.CapResidenza, &fullMember, &register, &p.NumeroTessera)
	if err := s.DB.QueryRowContext(ctx, query, receiptID, memberID).Scan(dest...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	switch {
	case fullMember == 1:
		p.TipoSocio = "1"
	case register == 1:
		p.TipoSocio = "3"
	}
	return &p, nil
}

// ReceiptTotals возвращает число квитанций члена клуба и суммы в центах.
func (s *Storage) ReceiptTotals(ctx context.Context, memberID int) (count int, amount, collected int64, err error) {
	const op = "storage.ReceiptTotals"
	if err := checkCtx(ctx, op); err != nil {
		return 0, 0, 0, err
	}

	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(collected), 0)
			  FROM receipts WHERE member_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, memberID).Scan(&count, &amount, &collected); err != nil {
		return 0, 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, amount, collected, nil
}
