package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/lib/ledger"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

func TestStorage_ReceiptNumbering(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)
	ctx := context.Background()

	memberID := factory.CreateMember(t, "Mario", "Rossi", "RSSMRA80A01H501U")
	activityID := factory.CreateActivity(t, "Nuoto", 12000)

	// Вставка не в хронологическом порядке: номер задаёт дата, затем id.
	late := factory.CreateReceipt(t, memberID, activityID, 3000, models.PaymentCash, "15-10-2024")
	first := factory.CreateReceipt(t, memberID, activityID, 1000, models.PaymentPOS, "01-09-2024")
	beforeSeptember := factory.CreateReceipt(t, memberID, activityID, 500, models.PaymentCash, "31-08-2024")
	sameDay := factory.CreateReceipt(t, memberID, activityID, 2000, models.PaymentTransfer, "15-10-2024")

	all, err := s.ListReceiptsRange(ctx, models.ReceiptFilter{
		From: dates.MustParse("01-01-2024"),
		To:   dates.MustParse("31-12-2024"),
	})
	require.NoError(t, err)
	require.Len(t, all, 4)

	numbers := map[int]int{}
	for _, r := range all {
		numbers[r.ID] = r.Numero
	}
	assert.Equal(t, 1, numbers[beforeSeptember], "August belongs to the previous sport year")
	assert.Equal(t, 1, numbers[first], "numbering restarts on September 1st")
	assert.Equal(t, 2, numbers[late])
	assert.Equal(t, 3, numbers[sameDay])

	t.Run("номер не зависит от периода", func(t *testing.T) {
		october, err := s.ListReceiptsRange(ctx, models.ReceiptFilter{
			From: dates.MustParse("01-10-2024"),
			To:   dates.MustParse("31-10-2024"),
		})
		require.NoError(t, err)
		require.Len(t, october, 2)
		assert.Equal(t, 2, october[0].Numero)
		assert.Equal(t, 3, october[1].Numero)
	})

	t.Run("фильтр по типу оплаты", func(t *testing.T) {
		pos, err := s.ListReceiptsRange(ctx, models.ReceiptFilter{
			From:        dates.MustParse("01-01-2024"),
			To:          dates.MustParse("31-12-2024"),
			PaymentType: models.PaymentPOS,
		})
		require.NoError(t, err)
		require.Len(t, pos, 1)
		assert.Equal(t, first, pos[0].ID)
	})

	t.Run("итоги по типам равны общему итогу", func(t *testing.T) {
		totals := ledger.SumByPaymentType(all)
		var sum int64
		for _, tt := range totals.PerType {
			sum += tt.Cents
		}
		assert.Equal(t, int64(6500), totals.Grand)
		assert.Equal(t, totals.Grand, sum)
	})

	t.Run("аннулированная квитанция исчезает из выборки", func(t *testing.T) {
		require.NoError(t, s.DeleteReceipt(ctx, late))
		NewTestVerification(s).VerifyReceiptDeleted(t, late)

		left, err := s.ListReceiptsRange(ctx, models.ReceiptFilter{
			From: dates.MustParse("01-01-2024"),
			To:   dates.MustParse("31-12-2024"),
		})
		require.NoError(t, err)
		for _, r := range left {
			assert.NotEqual(t, late, r.ID)
		}

		err = s.DeleteReceipt(ctx, late)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_CreateMember(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name    string
		member  models.Member
		wantErr error
	}{
		{
			name:   "новый член клуба",
			member: models.Member{Nome: "Anna", Cognome: "Bianchi", CodiceFiscale: "BNCNNA90M41F205X", TipoSocio: 1},
		},
		{
			name:    "повторный codice fiscale",
			member:  models.Member{Nome: "Anna", Cognome: "Verdi", CodiceFiscale: "BNCNNA90M41F205X", TipoSocio: 1},
			wantErr: ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := s.CreateMember(ctx, tt.member)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := s.GetMember(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.member.CodiceFiscale, got.CodiceFiscale)
			assert.Nil(t, got.DataNascita)
		})
	}

	_, err := s.GetMember(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_CreateMembership(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)
	ctx := context.Background()

	memberID := factory.CreateMember(t, "Luca", "Neri", "NRELCU85C10L219K")
	activityID := factory.CreateActivity(t, "Tennis", 8000)
	yearID := factory.CreateSportYear(t, "2024/2025", "01-09-2024", "31-08-2025", true)

	for i, want := range []string{"2024/0001", "2024/0002"} {
		id, card, err := s.CreateMembership(ctx, models.Membership{
			SocioID:        memberID,
			DataIscrizione: dates.MustParse("10-09-2024"),
			DataScadenza:   dates.Ptr(dates.MustParse("31-08-2025").Time),
			AnnoSportivoID: yearID,
			AttivitaID:     activityID,
			Importo:        8000,
		})
		require.NoError(t, err, "membership %d", i)
		assert.Equal(t, want, card)
		assert.Positive(t, id)
	}

	current, err := s.CurrentMembership(ctx, memberID)
	require.NoError(t, err)
	require.NotNil(t, current.NumeroTessera)
	assert.Equal(t, "2024/2025", current.AnnoSportivo)

	dups, err := s.FindDuplicateCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func TestStorage_DeleteActivity(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)
	ctx := context.Background()

	memberID := factory.CreateMember(t, "Sara", "Galli", "GLLSRA95T50H501Z")
	used := factory.CreateActivity(t, "Judo", 5000)
	free := factory.CreateActivity(t, "Yoga", 4000)
	factory.CreateReceipt(t, memberID, used, 5000, models.PaymentCash, "05-11-2024")

	assert.ErrorIs(t, s.DeleteActivity(ctx, used), ErrInUse)
	assert.NoError(t, s.DeleteActivity(ctx, free))
	assert.ErrorIs(t, s.DeleteActivity(ctx, free), ErrNotFound)
}

func TestStorage_LedgerMovements(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)
	ctx := context.Background()

	memberID := factory.CreateMember(t, "Paolo", "Conti", "CNTPLA70A01F205Y")
	activityID := factory.CreateActivity(t, "Calcio", 10000)
	factory.CreateReceipt(t, memberID, activityID, 10000, models.PaymentPOS, "10-09-2024")
	_, err := s.CreateExpense(ctx, models.Expense{
		DataSpesa: dates.MustParse("11-09-2024"),
		Fornitore: "Sport Shop",
		Importo:   2500,
	})
	require.NoError(t, err)

	income, err := s.IncomeMovements(ctx, models.DateRange{})
	require.NoError(t, err)
	expenses, err := s.ExpenseMovements(ctx, models.DateRange{})
	require.NoError(t, err)

	ms := ledger.Merge(income, expenses)
	require.Len(t, ms, 2)
	assert.Equal(t, models.MovementIncome, ms[0].Tipo)
	assert.Equal(t, "Conti Paolo", ms[0].Controparte)
	assert.Equal(t, int64(-2500), ms[1].Importo)
	assert.Equal(t, int64(7500), ms[1].SaldoProgressivo)
}
