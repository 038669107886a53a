package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

const membershipColumns = `ms.id, ms.member_id, ms.card_number, ms.enrollment_date, ms.expiry_date,
	ms.signed, COALESCE(ms.sport_year_id, 0), COALESCE(sy.name, ''), COALESCE(ms.activity_id, 0),
	a.name, ms.amount, ms.active`

const membershipFrom = ` FROM memberships ms
	LEFT JOIN sport_years sy ON sy.id = ms.sport_year_id
	LEFT JOIN activities a ON a.id = ms.activity_id`

func membershipDest(m *models.Membership) []any {
	return []any{&m.ID, &m.SocioID, &m.NumeroTessera, &m.DataIscrizione, &m.DataScadenza,
		&m.Firmato, &m.AnnoSportivoID, &m.AnnoSportivo, &m.AttivitaID, &m.AttivitaNome,
		&m.Importo, &m.Attivo}
}

// nextCardNumber возвращает следующий номер карточки года: "YYYY/NNNN".
// NNNN на единицу больше числа пронумерованных абонементов года и не меньше
// максимального уже выданного номера. Вызывается внутри транзакции.
func nextCardNumber(ctx context.Context, tx *sql.Tx, year int) (string, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(year)); err != nil {
		return "", err
	}
	var last int
	err := tx.QueryRowContext(ctx, `SELECT GREATEST(
			  (SELECT COUNT(*) FROM memberships
			   WHERE EXTRACT(YEAR FROM enrollment_date)::int = $1 AND COALESCE(card_number, '') <> ''),
			  (SELECT COALESCE(MAX(split_part(card_number, '/', 2)::int), 0) FROM memberships
			   WHERE card_number ~ ('^' || $1::text || '/[0-9]{4}$')))`, year,
	).Scan(&last)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%04d", year, last+1), nil
}

// CreateMembership добавляет абонемент и присваивает ему номер карточки года записи.
func (s *Storage) CreateMembership(ctx context.Context, m models.Membership) (int, string, error) {
	const op = "storage.CreateMembership"
	if err := checkCtx(ctx, op); err != nil {
		return 0, "", err
	}

	var (
		newID int
		card  string
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		card, err = nextCardNumber(ctx, tx, m.DataIscrizione.Year())
		if err != nil {
			return err
		}
		query := `INSERT INTO memberships (member_id, card_number, enrollment_date, expiry_date,
				      signed, sport_year_id, activity_id, amount, active)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
				  RETURNING id`
		return tx.QueryRowContext(ctx, query, m.SocioID, card, m.DataIscrizione, m.DataScadenza,
			m.Firmato, m.AnnoSportivoID, m.AttivitaID, m.Importo).Scan(&newID)
	})
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, card, nil
}

// UpdateMembership меняет дату записи и признак подписи.
func (s *Storage) UpdateMembership(ctx context.Context, id int, enrollment time.Time, signed bool) error {
	const op = "storage.UpdateMembership"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE memberships
			  SET enrollment_date = $1, signed = $2, updated_at = NOW()
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, enrollment, signed, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMembership возвращает абонемент по ID.
func (s *Storage) GetMembership(ctx context.Context, id int) (*models.Membership, error) {
	const op = "storage.GetMembership"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + membershipColumns + membershipFrom + ` WHERE ms.id = $1`
	var m models.Membership
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(membershipDest(&m)...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &m, nil
}

// CurrentMembership возвращает последний действующий абонемент члена клуба.
func (s *Storage) CurrentMembership(ctx context.Context, memberID int) (*models.Membership, error) {
	const op = "storage.CurrentMembership"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + membershipColumns + membershipFrom + `
			  WHERE ms.member_id = $1 AND ms.active = true
			  ORDER BY ms.enrollment_date DESC, ms.id DESC
			  LIMIT 1`
	var m models.Membership
	if err := s.DB.QueryRowContext(ctx, query, memberID).Scan(membershipDest(&m)...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &m, nil
}

// ListMembershipsByMember возвращает все абонементы члена клуба, новые первыми.
func (s *Storage) ListMembershipsByMember(ctx context.Context, memberID int) ([]models.Membership, error) {
	const op = "storage.ListMembershipsByMember"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + membershipColumns + membershipFrom + `
			  WHERE ms.member_id = $1
			  ORDER BY ms.enrollment_date DESC, ms.id DESC`
	rows, err := s.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(membershipDest(&m)...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindByCardNumber возвращает абонемент по номеру карточки вместе с данными члена клуба.
func (s *Storage) FindByCardNumber(ctx context.Context, number string) (*models.CardLookup, error) {
	const op = "storage.FindByCardNumber"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + membershipColumns + `, m.first_name, m.last_name, m.tax_code,
			      m.birth_date, m.email, m.phone` + membershipFrom + `
			  JOIN members m ON m.id = ms.member_id
			  WHERE ms.card_number = $1
			  ORDER BY ms.enrollment_date DESC, ms.id DESC
			  LIMIT 1`
	var c models.CardLookup
	dest := append(membershipDest(&c.Membership), &c.Nome, &c.Cognome, &c.CodiceFiscale,
		&c.DataNascita, &c.Email, &c.Telefono)
	if err := s.DB.QueryRowContext(ctx, query, number).Scan(dest...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &c, nil
}

// CardNumberTaken сообщает, занят ли номер карточки другим абонементом.
func (s *Storage) CardNumberTaken(ctx context.Context, number string, exceptID int) (bool, error) {
	const op = "storage.CardNumberTaken"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var taken bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE card_number = $1 AND id <> $2)`,
		number, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return taken, nil
}

// SetCardNumber записывает номер карточки; nil очищает его.
func (s *Storage) SetCardNumber(ctx context.Context, id int, number *string) error {
	const op = "storage.SetCardNumber"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE memberships SET card_number = $1, updated_at = NOW() WHERE id = $2`, number, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindDuplicateCards возвращает номера карточек, присвоенные нескольким абонементам.
func (s *Storage) FindDuplicateCards(ctx context.Context) ([]models.CardIssue, error) {
	const op = "storage.FindDuplicateCards"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT card_number, COUNT(*), array_to_string(array_agg(id ORDER BY id), ',')
			  FROM memberships
			  WHERE card_number IS NOT NULL AND card_number <> ''
			  GROUP BY card_number
			  HAVING COUNT(*) > 1
			  ORDER BY card_number`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.CardIssue{}
	for rows.Next() {
		var (
			issue  models.CardIssue
			number string
			ids    string
		)
		if err := rows.Scan(&number, &issue.Duplicates, &ids); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		issue.NumeroTessera = &number
		issue.IDs, err = parseIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindCardIssues возвращает абонементы без номера карточки в спортивном году
// (invalidFormat = false) или с номером не вида YYYY/NNNN (invalidFormat = true).
func (s *Storage) FindCardIssues(ctx context.Context, sportYearID int, invalidFormat bool) ([]models.CardIssue, error) {
	const op = "storage.FindCardIssues"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ms.id, ms.card_number, m.first_name, m.last_name, COALESCE(a.name, '')
			  FROM memberships ms
			  JOIN members m ON m.id = ms.member_id
			  LEFT JOIN activities a ON a.id = ms.activity_id
			  WHERE ms.active = true
			    AND (($1::bool = false AND ms.sport_year_id = $2 AND COALESCE(ms.card_number, '') = '')
			      OR ($1::bool = true AND ms.card_number IS NOT NULL AND ms.card_number <> ''
			          AND ms.card_number !~ '^[0-9]{4}/[0-9]{4}$'))
			  ORDER BY m.last_name, m.first_name, ms.id`
	rows, err := s.DB.QueryContext(ctx, query, invalidFormat, sportYearID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.CardIssue{}
	for rows.Next() {
		var issue models.CardIssue
		if err := rows.Scan(&issue.MembershipID, &issue.NumeroTessera, &issue.Nome, &issue.Cognome,
			&issue.Attivita); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignMissingCards присваивает номера карточек абонементам спортивного года без номера
// в порядке даты записи. Возвращает число обновлённых абонементов.
func (s *Storage) AssignMissingCards(ctx context.Context, sportYearID int) (int, error) {
	const op = "storage.AssignMissingCards"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var updated int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, enrollment_date
				  FROM memberships
				  WHERE sport_year_id = $1 AND active = true AND COALESCE(card_number, '') = ''
				  ORDER BY enrollment_date, id`, sportYearID)
		if err != nil {
			return err
		}
		type pending struct {
			id   int
			year int
		}
		var todo []pending
		for rows.Next() {
			var (
				id int
				d  time.Time
			)
			if err := rows.Scan(&id, &d); err != nil {
				_ = rows.Close()
				return err
			}
			todo = append(todo, pending{id: id, year: d.Year()})
		}
		if err := rows.Close(); err != nil {
			return err
		}

		for _, p := range todo {
			card, err := nextCardNumber(ctx, tx, p.year)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE memberships SET card_number = $1, updated_at = NOW() WHERE id = $2`, card, p.id,
			); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}
