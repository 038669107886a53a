package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &Storage{DB: db}, mock
}

func TestStorage_DeleteReceipt(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{
			name:     "квитанция удалена",
			affected: 1,
		},
		{
			name:     "квитанция не найдена",
			affected: 0,
			wantErr:  ErrNotFound,
		},
		{
			name:    "ошибка базы",
			execErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			exp := mock.ExpectExec(`DELETE FROM receipts WHERE id = \$1`).WithArgs(7)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := s.DeleteReceipt(context.Background(), 7)
			switch {
			case tt.execErr != nil:
				assert.ErrorIs(t, err, tt.execErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_CreateMember_Duplicate(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM members WHERE tax_code = \$1\)`).
		WithArgs("RSSMRA80A01H501U").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := s.CreateMember(context.Background(), models.Member{CodiceFiscale: "RSSMRA80A01H501U"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetMember_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`FROM members m WHERE m.id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetMember(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateFederation_Duplicate(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`INSERT INTO federations`).
		WithArgs("FIN").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "federations_name_key"})

	_, err := s.CreateFederation(context.Background(), "FIN")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReceiptTotals(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`FROM receipts WHERE member_id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count", "amount", "collected"}).AddRow(2, 15000, 12000))

	count, amount, collected, err := s.ReceiptTotals(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(15000), amount)
	assert.Equal(t, int64(12000), collected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CanceledContext(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListMemberTypes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_FindCertificatesExpiring_SkipsReminded(t *testing.T) {
	s, mock := newMockStorage(t)
	from := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 30)
	expiry := time.Date(2024, time.October, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM members(.|\n)+NOT EXISTS(.|\n)+certificate_reminders`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "certificate_expiry"}).
			AddRow(1, "Anna", "Bianchi", "anna@example.com", expiry))

	got, err := s.FindCertificatesExpiring(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].MemberID)
	assert.True(t, got[0].ScadenzaCertificato.Equal(expiry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_MarkCertificateReminded(t *testing.T) {
	expiry := time.Date(2024, time.October, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "отметка сохранена"},
		{name: "член клуба не найден", execErr: &pgconn.PgError{Code: pgForeignKeyViolation}, wantErr: ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			exp := mock.ExpectExec(`INSERT INTO certificate_reminders(.|\n)+ON CONFLICT`).WithArgs(1, expiry)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := s.MarkCertificateReminded(context.Background(), 1, expiry)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
