package entityreceipt

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateEntityReceipt(ctx context.Context, r models.EntityReceipt) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListEntityReceipts(ctx context.Context, r models.DateRange, ascending bool) ([]models.EntityReceipt, error) {
	args := m.Called(ctx, r, ascending)
	res, _ := args.Get(0).([]models.EntityReceipt)
	return res, args.Error(1)
}

func (m *RepoMock) GetEntityReceipt(ctx context.Context, id int) (*models.EntityReceipt, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.EntityReceipt)
	return res, args.Error(1)
}

func (m *RepoMock) UpdateEntityReceipt(ctx context.Context, id int, r models.EntityReceipt) error {
	return m.Called(ctx, id, r).Error(0)
}

func (m *RepoMock) DeleteEntityReceipt(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.EntityReceipt
		wantTotal float64
		wantLen   int
	}{
		{
			name: "итог по квитанциям",
			items: []models.EntityReceipt{
				{ID: 2, Ente: "Comune", Importo: 20000},
				{ID: 1, Ente: "Regione", Importo: 5050},
			},
			wantTotal: 250.50,
			wantLen:   2,
		},
		{
			name: "пустой период",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ListEntityReceipts", mock.Anything, models.DateRange{}, false).Return(tt.items, nil)

			got, err := New(repo, newNoopLogger()).List(context.Background(), models.DateRange{})
			require.NoError(t, err)
			assert.NotNil(t, got.Items)
			assert.Len(t, got.Items, tt.wantLen)
			assert.InDelta(t, tt.wantTotal, got.TotaleGenerale, 0.001)
		})
	}
}

func TestService_Ledger(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListEntityReceipts", mock.Anything, models.DateRange{}, true).Return([]models.EntityReceipt{
		{ID: 1, DataRicevuta: dates.MustParse("01-10-2024"), Ente: "Comune", Importo: 10000},
		{ID: 2, DataRicevuta: dates.MustParse("01-11-2024"), Ente: "Regione", Importo: 2500},
	}, nil)

	got, err := New(repo, newNoopLogger()).Ledger(context.Background(), models.DateRange{})
	require.NoError(t, err)
	require.Len(t, got.Movimenti, 2)
	assert.Equal(t, int64(12500), got.Movimenti[1].SaldoProgressivo)
	assert.Equal(t, "Regione", got.Movimenti[1].Controparte)
	assert.Equal(t, 2, got.Movimenti[1].Numero)
	assert.InDelta(t, 125.0, got.Riepilogo.TotaleEntrate, 0.001)
	assert.Zero(t, got.Riepilogo.TotaleUscite)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("DeleteEntityReceipt", mock.Anything, 9).Return(storage.ErrNotFound)

	err := New(repo, newNoopLogger()).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
