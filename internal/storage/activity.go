package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

const activityColumns = `id, name, code, COALESCE(federation_id, 0), COALESCE(section_id, 0),
	referent_email, fee, active`

func activityDest(a *models.Activity) []any {
	return []any{&a.ID, &a.Nome, &a.Codice, &a.FederazioneID, &a.SezioneID, &a.EmailReferente,
		&a.Importo, &a.Attiva}
}

func nullableID(id int) any {
	if id <= 0 {
		return nil
	}
	return id
}

// ListActivities возвращает активности по фильтру: federationID и sectionID, равные нулю,
// не ограничивают выборку.
func (s *Storage) ListActivities(ctx context.Context, federationID, sectionID int) ([]models.Activity, error) {
	const op = "storage.ListActivities"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + activityColumns + `
			  FROM activities
			  WHERE ($1::int = 0 OR federation_id = $1)
			    AND ($2::int = 0 OR section_id = $2)
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, federationID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(activityDest(&a)...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListActivityCodes возвращает коды активных активностей.
func (s *Storage) ListActivityCodes(ctx context.Context) ([]models.ActivityCode, error) {
	const op = "storage.ListActivityCodes"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, code, name FROM activities WHERE active = true ORDER BY code, name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.ActivityCode{}
	for rows.Next() {
		var c models.ActivityCode
		if err := rows.Scan(&c.ID, &c.Codice, &c.Nome); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FederationActivitiesFull возвращает активности федерации с числом членов клуба и квитанций.
func (s *Storage) FederationActivitiesFull(ctx context.Context, federationID int) ([]models.ActivityStats, error) {
	const op = "storage.FederationActivitiesFull"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT a.id, a.name, a.code, COALESCE(a.federation_id, 0), COALESCE(a.section_id, 0),
			      a.referent_email, a.fee, a.active,
			      (SELECT COUNT(DISTINCT member_id) FROM memberships WHERE activity_id = a.id),
			      (SELECT COUNT(*) FROM receipts WHERE activity_id = a.id)
			  FROM activities a
			  WHERE a.federation_id = $1
			  ORDER BY a.name`
	rows, err := s.DB.QueryContext(ctx, query, federationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.ActivityStats{}
	for rows.Next() {
		var st models.ActivityStats
		dest := append(activityDest(&st.Activity), &st.NumeroSoci, &st.NumeroRicevute)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetActivity возвращает активность по ID.
func (s *Storage) GetActivity(ctx context.Context, id int) (*models.Activity, error) {
	const op = "storage.GetActivity"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var a models.Activity
	err := s.DB.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id).
		Scan(activityDest(&a)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &a, nil
}

// FirstActiveActivity возвращает первую по ID активную активность.
func (s *Storage) FirstActiveActivity(ctx context.Context) (*models.Activity, error) {
	const op = "storage.FirstActiveActivity"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var a models.Activity
	err := s.DB.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE active = true ORDER BY id LIMIT 1`).
		Scan(activityDest(&a)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &a, nil
}

// SaveActivity создаёт активность (ID == 0) или изменяет существующую.
func (s *Storage) SaveActivity(ctx context.Context, a models.Activity) (int, error) {
	const op = "storage.SaveActivity"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	if a.ID > 0 {
		query := `UPDATE activities
				  SET name = $1, code = $2, federation_id = $3, section_id = $4,
				      referent_email = $5, fee = $6, active = $7
				  WHERE id = $8`
		res, err := s.DB.ExecContext(ctx, query, a.Nome, a.Codice, nullableID(a.FederazioneID),
			nullableID(a.SezioneID), a.EmailReferente, a.Importo, a.Attiva, a.ID)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, mapError(err))
		}
		if err := affected(res); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return a.ID, nil
	}

	query := `INSERT INTO activities (name, code, federation_id, section_id, referent_email, fee, active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, a.Nome, a.Codice, nullableID(a.FederazioneID),
		nullableID(a.SezioneID), a.EmailReferente, a.Importo, a.Attiva).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// DeleteActivity удаляет активность. Если на неё ссылаются квитанции, возвращает ErrInUse.
func (s *Storage) DeleteActivity(ctx context.Context, id int) error {
	const op = "storage.DeleteActivity"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var used bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM receipts WHERE activity_id = $1)`, id,
		).Scan(&used); err != nil {
			return err
		}
		if used {
			return ErrInUse
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
		if err != nil {
			return mapError(err)
		}
		return affected(res)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidReference) {
			return fmt.Errorf("%s: %w", op, ErrInUse)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListFederations возвращает справочник федераций.
func (s *Storage) ListFederations(ctx context.Context) ([]models.Lookup, error) {
	return s.listLookup(ctx, "storage.ListFederations", `SELECT id, name FROM federations ORDER BY name`)
}

// ListSections возвращает справочник секций.
func (s *Storage) ListSections(ctx context.Context) ([]models.Lookup, error) {
	return s.listLookup(ctx, "storage.ListSections", `SELECT id, name FROM sections ORDER BY name`)
}

// CreateFederation добавляет федерацию. Повтор имени даёт ErrDuplicate.
func (s *Storage) CreateFederation(ctx context.Context, name string) (int, error) {
	return s.createLookup(ctx, "storage.CreateFederation", `INSERT INTO federations (name) VALUES ($1) RETURNING id`, name)
}

// CreateSection добавляет секцию. Повтор имени даёт ErrDuplicate.
func (s *Storage) CreateSection(ctx context.Context, name string) (int, error) {
	return s.createLookup(ctx, "storage.CreateSection", `INSERT INTO sections (name) VALUES ($1) RETURNING id`, name)
}

func (s *Storage) listLookup(ctx context.Context, op, query string) ([]models.Lookup, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Lookup{}
	for rows.Next() {
		var l models.Lookup
		if err := rows.Scan(&l.ID, &l.Nome); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) createLookup(ctx context.Context, op, query, name string) (int, error) {
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var newID int
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}
