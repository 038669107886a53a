package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

const memberColumns = `m.id, m.first_name, m.last_name, m.tax_code, m.sex, m.birth_date,
	m.birth_province, m.birth_town, m.res_province, m.res_town, m.res_street, m.res_zip,
	m.phone, m.email, m.certificate_expiry, COALESCE(m.member_type_id, 0), m.is_competitive,
	m.privacy, m.privacy_date, m.is_registered, m.is_full_member, m.is_volunteer,
	m.enrollment_date, m.is_expired`

func memberDest(m *models.Member) []any {
	return []any{&m.ID, &m.Nome, &m.Cognome, &m.CodiceFiscale, &m.Sesso, &m.DataNascita,
		&m.ProvinciaNascita, &m.ComuneNascita, &m.ProvinciaResidenza, &m.ComuneResidenza,
		&m.ViaResidenza, &m.CapResidenza, &m.Telefono, &m.Email, &m.ScadenzaCertificato,
		&m.TipoSocio, &m.IsAgonistico, &m.Privacy, &m.DataPrivacy, &m.IsTesserato,
		&m.IsEffettivo, &m.IsVolontario, &m.DataIscrizione, &m.IsScaduto}
}

func memberArgs(m models.Member) []any {
	var memberType any
	if m.TipoSocio > 0 {
		memberType = m.TipoSocio
	}
	return []any{m.Nome, m.Cognome, m.CodiceFiscale, m.Sesso, m.DataNascita,
		m.ProvinciaNascita, m.ComuneNascita, m.ProvinciaResidenza, m.ComuneResidenza,
		m.ViaResidenza, m.CapResidenza, m.Telefono, m.Email, m.ScadenzaCertificato,
		memberType, m.IsAgonistico, m.Privacy, m.DataPrivacy, m.IsTesserato,
		m.IsEffettivo, m.IsVolontario, m.DataIscrizione, m.IsScaduto}
}

// ListMembers возвращает активных членов клуба с последним действующим абонементом.
func (s *Storage) ListMembers(ctx context.Context, f models.MemberFilter) ([]models.MemberListItem, error) {
	const op = "storage.ListMembers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + memberColumns + `, ms.card_number, ms.expiry_date, a.name, mt.name
			  FROM members m
			  LEFT JOIN LATERAL (
			      SELECT card_number, expiry_date, activity_id, sport_year_id
			      FROM memberships
			      WHERE member_id = m.id AND active = true
			      ORDER BY enrollment_date DESC, id DESC
			      LIMIT 1
			  ) ms ON true
			  LEFT JOIN activities a ON a.id = ms.activity_id
			  LEFT JOIN member_types mt ON mt.id = m.member_type_id
			  WHERE m.active = true
			    AND ($1::text = '' OR m.first_name ILIKE '%' || $1 || '%')
			    AND ($2::text = '' OR m.last_name ILIKE '%' || $2 || '%')
			    AND ($3::int = 0 OR (ms.expiry_date >= CURRENT_DATE
			        AND ms.expiry_date <= CURRENT_DATE + make_interval(months => $3::int)))
			    AND ($4::int = 0 OR ms.activity_id = $4)
			    AND (NOT $5::bool OR ms.expiry_date < CURRENT_DATE)
			    AND ($6::int = 0 OR ms.sport_year_id = $6)
			    AND (NOT $7::bool OR m.email <> '')
			  ORDER BY m.last_name, m.first_name`
	rows, err := s.DB.QueryContext(ctx, query, f.Nome, f.Cognome, f.ExpiringIn, f.ActivityID,
		f.OnlyExpired, f.SportYearID, f.RequireEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.MemberListItem{}
	for rows.Next() {
		var item models.MemberListItem
		dest := append(memberDest(&item.Member), &item.NumeroTessera, &item.DataScadenza,
			&item.NomeAttivita, &item.TipoSocioNome)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMember возвращает члена клуба по ID.
func (s *Storage) GetMember(ctx context.Context, id int) (*models.Member, error) {
	const op = "storage.GetMember"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + memberColumns + ` FROM members m WHERE m.id = $1`
	var m models.Member
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(memberDest(&m)...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &m, nil
}

// CreateMember добавляет члена клуба. Повторный codice fiscale даёт ErrDuplicate.
func (s *Storage) CreateMember(ctx context.Context, m models.Member) (int, error) {
	const op = "storage.CreateMember"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var newID int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM members WHERE tax_code = $1)`, m.CodiceFiscale,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrDuplicate
		}

		query := `INSERT INTO members (first_name, last_name, tax_code, sex, birth_date,
				      birth_province, birth_town, res_province, res_town, res_street, res_zip,
				      phone, email, certificate_expiry, member_type_id, is_competitive, privacy,
				      privacy_date, is_registered, is_full_member, is_volunteer, enrollment_date,
				      is_expired)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				      $16, $17, $18, $19, $20, $21, $22, $23)
				  RETURNING id`
		return tx.QueryRowContext(ctx, query, memberArgs(m)...).Scan(&newID)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// UpdateMember изменяет данные члена клуба.
func (s *Storage) UpdateMember(ctx context.Context, id int, m models.Member) error {
	const op = "storage.UpdateMember"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE members
			  SET first_name = $1, last_name = $2, tax_code = $3, sex = $4, birth_date = $5,
			      birth_province = $6, birth_town = $7, res_province = $8, res_town = $9,
			      res_street = $10, res_zip = $11, phone = $12, email = $13,
			      certificate_expiry = $14, member_type_id = $15, is_competitive = $16,
			      privacy = $17, privacy_date = $18, is_registered = $19, is_full_member = $20,
			      is_volunteer = $21, enrollment_date = $22, is_expired = $23, updated_at = NOW()
			  WHERE id = $24`
	res, err := s.DB.ExecContext(ctx, query, append(memberArgs(m), id)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListMemberTypes возвращает справочник типов членов клуба.
func (s *Storage) ListMemberTypes(ctx context.Context) ([]models.MemberType, error) {
	const op = "storage.ListMemberTypes"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM member_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.MemberType{}
	for rows.Next() {
		var t models.MemberType
		if err := rows.Scan(&t.ID, &t.Nome); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListMemberContacts возвращает членов клуба с e-mail для рассылки.
func (s *Storage) ListMemberContacts(ctx context.Context, nome, cognome string) ([]models.MemberContact, error) {
	const op = "storage.ListMemberContacts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT m.id, m.first_name, m.last_name, m.email, ms.card_number, ms.expiry_date
			  FROM members m
			  LEFT JOIN LATERAL (
			      SELECT card_number, expiry_date
			      FROM memberships
			      WHERE member_id = m.id AND active = true
			      ORDER BY enrollment_date DESC, id DESC
			      LIMIT 1
			  ) ms ON true
			  WHERE m.active = true AND m.email <> ''
			    AND ($1::text = '' OR m.first_name ILIKE '%' || $1 || '%')
			    AND ($2::text = '' OR m.last_name ILIKE '%' || $2 || '%')
			  ORDER BY m.last_name, m.first_name`
	rows, err := s.DB.QueryContext(ctx, query, nome, cognome)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.MemberContact{}
	for rows.Next() {
		var c models.MemberContact
		if err := rows.Scan(&c.ID, &c.Nome, &c.Cognome, &c.Email, &c.NumeroTessera, &c.DataScadenza); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindMemberByTaxCodeAndType ищет члена клуба по codice fiscale и типу.
// Возвращает nil без ошибки, если такого нет.
func (s *Storage) FindMemberByTaxCodeAndType(ctx context.Context, taxCode string, memberType int) (*models.MemberRef, error) {
	const op = "storage.FindMemberByTaxCodeAndType"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, first_name, last_name
			  FROM members
			  WHERE tax_code = $1 AND member_type_id = $2
			  LIMIT 1`
	var ref models.MemberRef
	err := s.DB.QueryRowContext(ctx, query, taxCode, memberType).Scan(&ref.ID, &ref.Nome, &ref.Cognome)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ref, nil
}

// FindCertificatesExpiring возвращает членов клуба с e-mail, у которых медицинская
// справка истекает в интервале [from, to] и напоминание по ней ещё не отправлялось.
func (s *Storage) FindCertificatesExpiring(ctx context.Context, from, to time.Time) ([]models.CertificateReminder, error) {
	const op = "storage.FindCertificatesExpiring"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, first_name, last_name, email, certificate_expiry
			  FROM members
			  WHERE active = true AND email <> ''
			    AND certificate_expiry BETWEEN $1 AND $2
			    AND NOT EXISTS (
			      SELECT 1 FROM certificate_reminders cr
			      WHERE cr.member_id = members.id AND cr.certificate_expiry = members.certificate_expiry)
			  ORDER BY certificate_expiry, id`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.CertificateReminder
	for rows.Next() {
		var r models.CertificateReminder
		if err := rows.Scan(&r.MemberID, &r.Nome, &r.Cognome, &r.Email, &r.ScadenzaCertificato); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkCertificateReminded отмечает, что напоминание по справке с датой expiry отправлено.
// Повторная отметка ничего не меняет.
func (s *Storage) MarkCertificateReminded(ctx context.Context, memberID int, expiry time.Time) error {
	const op = "storage.MarkCertificateReminded"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO certificate_reminders (member_id, certificate_expiry)
			  VALUES ($1, $2)
			  ON CONFLICT (member_id, certificate_expiry) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, memberID, expiry); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}
