package expense

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateExpense(ctx context.Context, e models.Expense) (int, error) {
	args := m.Called(ctx, e)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListExpenses(ctx context.Context, r models.DateRange) ([]models.Expense, error) {
	args := m.Called(ctx, r)
	res, _ := args.Get(0).([]models.Expense)
	return res, args.Error(1)
}

func (m *RepoMock) DeleteExpense(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name        string
		in          models.Expense
		wantPayment int
	}{
		{name: "наличные по умолчанию", in: models.Expense{Fornitore: " Sport Shop "}, wantPayment: models.PaymentCash},
		{name: "перевод", in: models.Expense{Fornitore: "Enel", TipoPagamento: models.PaymentTransfer}, wantPayment: models.PaymentTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("CreateExpense", mock.Anything, mock.MatchedBy(func(e models.Expense) bool {
				return e.TipoPagamento == tt.wantPayment && e.Fornitore != "" && e.Fornitore[0] != ' '
			})).Return(4, nil)

			id, err := New(repo, newNoopLogger()).Create(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, 4, id)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListEmpty(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListExpenses", mock.Anything, models.DateRange{}).Return(nil, nil)

	got, err := New(repo, newNoopLogger()).List(context.Background(), models.DateRange{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_Delete(t *testing.T) {
	repo := new(RepoMock)
	repo.On("DeleteExpense", mock.Anything, 3).Return(storage.ErrNotFound)

	assert.ErrorIs(t, New(repo, newNoopLogger()).Delete(context.Background(), 3), storage.ErrNotFound)
}
