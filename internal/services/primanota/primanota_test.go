package primanota

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) IncomeMovements(ctx context.Context, r models.DateRange) ([]models.Movement, error) {
	args := m.Called(ctx, r)
	res, _ := args.Get(0).([]models.Movement)
	return res, args.Error(1)
}

func (m *RepoMock) ExpenseMovements(ctx context.Context, r models.DateRange) ([]models.Movement, error) {
	args := m.Called(ctx, r)
	res, _ := args.Get(0).([]models.Movement)
	return res, args.Error(1)
}

func (m *RepoMock) MonthlyIncome(ctx context.Context, from, to time.Time) ([]models.MonthAmount, error) {
	args := m.Called(ctx, from, to)
	res, _ := args.Get(0).([]models.MonthAmount)
	return res, args.Error(1)
}

func (m *RepoMock) ActivityIncome(ctx context.Context, from, to time.Time) ([]models.ActivityAmount, error) {
	args := m.Called(ctx, from, to)
	res, _ := args.Get(0).([]models.ActivityAmount)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *RepoMock, now time.Time) *Service {
	s := New(repo, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestService_Ledger(t *testing.T) {
	income := []models.Movement{
		{Data: dates.MustParse("10-09-2024"), Numero: 1, Tipo: models.MovementIncome, Importo: 10000},
		{Data: dates.MustParse("20-09-2024"), Numero: 2, Tipo: models.MovementIncome, Importo: 5000},
	}
	expenses := []models.Movement{
		{Data: dates.MustParse("15-09-2024"), Numero: 1, Tipo: models.MovementExpense, Importo: -2500},
	}

	tests := []struct {
		name        string
		kind        int
		setupMocks  func(r *RepoMock)
		wantSaldo   []int64
		wantEntrate float64
		wantUscite  float64
		wantErr     error
	}{
		{
			name: "все движения",
			kind: models.LedgerAll,
			setupMocks: func(r *RepoMock) {
				r.On("IncomeMovements", mock.Anything, mock.Anything).Return(income, nil)
				r.On("ExpenseMovements", mock.Anything, mock.Anything).Return(expenses, nil)
			},
			wantSaldo:   []int64{10000, 7500, 12500},
			wantEntrate: 150,
			wantUscite:  25,
		},
		{
			name: "только поступления",
			kind: models.LedgerIncome,
			setupMocks: func(r *RepoMock) {
				r.On("IncomeMovements", mock.Anything, mock.Anything).Return(income, nil)
			},
			wantSaldo:   []int64{10000, 15000},
			wantEntrate: 150,
		},
		{
			name: "только расходы",
			kind: models.LedgerExpenses,
			setupMocks: func(r *RepoMock) {
				r.On("ExpenseMovements", mock.Anything, mock.Anything).Return(expenses, nil)
			},
			wantSaldo:  []int64{-2500},
			wantUscite: 25,
		},
		{
			name:       "неизвестный тип",
			kind:       5,
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			got, err := newService(repo, time.Now()).Ledger(context.Background(), tt.kind, models.DateRange{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var saldo []int64
			for _, m := range got.Movimenti {
				saldo = append(saldo, m.SaldoProgressivo)
			}
			assert.Equal(t, tt.wantSaldo, saldo)
			assert.InDelta(t, tt.wantEntrate, got.Riepilogo.TotaleEntrate, 0.001)
			assert.InDelta(t, tt.wantUscite, got.Riepilogo.TotaleUscite, 0.001)
			assert.Equal(t, tt.kind, got.Riepilogo.Tipo)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Print(t *testing.T) {
	repo := new(RepoMock)
	repo.On("IncomeMovements", mock.Anything, mock.Anything).Return([]models.Movement{
		{Data: dates.MustParse("10-09-2024"), Numero: 1, Tipo: models.MovementIncome, Importo: 1250},
	}, nil)

	now := time.Date(2024, time.October, 3, 12, 0, 0, 0, time.UTC)
	from, to := dates.MustParse("01-09-2024"), dates.MustParse("30-09-2024")
	got, err := newService(repo, now).Print(context.Background(), models.LedgerIncome, models.DateRange{From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, "PRIMA NOTA", got.Intestazione.Titolo)
	assert.Equal(t, "Solo Entrate", got.Intestazione.Sottotitolo)
	assert.Equal(t, "Dal 01/09/2024 al 30/09/2024", got.Intestazione.Periodo)
	assert.Equal(t, "03/10/2024", got.Intestazione.DataStampa)
	require.Len(t, got.MovimentiFormattati, 1)
	assert.Equal(t, "€ 12.50", got.MovimentiFormattati[0].Importo)
	assert.Equal(t, "+", got.MovimentiFormattati[0].Segno)
}

func TestService_StatisticMonthly(t *testing.T) {
	now := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	curFrom := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	curTo := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	prevFrom := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	prevTo := time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)

	t.Run("текущий год пуст, показывается предыдущий", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("MonthlyIncome", mock.Anything, curFrom, curTo).Return([]models.MonthAmount{}, nil)
		repo.On("MonthlyIncome", mock.Anything, prevFrom, prevTo).Return([]models.MonthAmount{
			{Year: 2025, Month: 2, Amount: 3000, Count: 1},
		}, nil)
		repo.On("ActivityIncome", mock.Anything, curFrom, curTo).Return([]models.ActivityAmount{}, nil)

		res, err := newService(repo, now).Statistic(context.Background(), StatMonthly)
		require.NoError(t, err)
		stats := res.(models.MonthlyStats)

		assert.Equal(t, "2024/2025", stats.AnnoSportivo)
		require.Len(t, stats.Mensile, 12)
		assert.Equal(t, "Settembre", stats.Mensile[0].Nome)
		assert.Equal(t, "Febbraio", stats.Mensile[5].Nome)
		assert.InDelta(t, 30.0, stats.Mensile[5].Totale, 0.001)
		assert.Zero(t, stats.TotaleEntrate)
	})

	t.Run("итоги по активностям", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("MonthlyIncome", mock.Anything, curFrom, curTo).Return([]models.MonthAmount{
			{Year: 2025, Month: 9, Amount: 4000, Count: 2},
		}, nil)
		repo.On("ActivityIncome", mock.Anything, curFrom, curTo).Return([]models.ActivityAmount{
			{ActivityID: 1, Name: "Nuoto", Amount: 3000, Count: 1},
			{ActivityID: 2, Name: "Tennis", Amount: 1000, Count: 1},
		}, nil)

		res, err := newService(repo, now).Statistic(context.Background(), StatMonthly)
		require.NoError(t, err)
		stats := res.(models.MonthlyStats)

		assert.Equal(t, "2025/2026", stats.AnnoSportivo)
		assert.Len(t, stats.CategorieStats, 2)
		assert.InDelta(t, 40.0, stats.TotaleEntrate, 0.001)
		repo.AssertNotCalled(t, "MonthlyIncome", mock.Anything, prevFrom, prevTo)
	})
}

func TestService_StatisticOther(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("тренд", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("MonthlyIncome", mock.Anything, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), now).
			Return([]models.MonthAmount{{Year: 2025, Month: 3, Amount: 500, Count: 1}}, nil)

		res, err := newService(repo, now).Statistic(context.Background(), StatTrend)
		require.NoError(t, err)
		trend := res.(models.TrendReport).TrendMensile
		require.Len(t, trend, 12)
		assert.Equal(t, "Aprile", trend[0].Nome)
		assert.InDelta(t, 5.0, trend[11].Totale, 0.001)
	})

	t.Run("по активностям", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ActivityIncome", mock.Anything, time.Time{}, time.Time{}).
			Return([]models.ActivityAmount{{ActivityID: 1, Name: "Nuoto", Amount: 900, Count: 3}}, nil)

		res, err := newService(repo, now).Statistic(context.Background(), StatActivity)
		require.NoError(t, err)
		assert.Equal(t, 3, res.(models.ActivityStatsReport).PerAttivita[0].Count)
	})

	t.Run("неизвестный тип", func(t *testing.T) {
		_, err := newService(new(RepoMock), now).Statistic(context.Background(), 9)
		assert.ErrorIs(t, err, ErrInvalidStatistic)
	})
}
