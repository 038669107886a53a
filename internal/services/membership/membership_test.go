package membership

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
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMembership(ctx context.Context, ms models.Membership) (int, string, error) {
	args := m.Called(ctx, ms)
	return args.Int(0), args.String(1), args.Error(2)
}

func (m *RepoMock) UpdateMembership(ctx context.Context, id int, enrollment time.Time, signed bool) error {
	return m.Called(ctx, id, enrollment, signed).Error(0)
}

func (m *RepoMock) GetMembership(ctx context.Context, id int) (*models.Membership, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Membership)
	return res, args.Error(1)
}

func (m *RepoMock) CurrentMembership(ctx context.Context, memberID int) (*models.Membership, error) {
	args := m.Called(ctx, memberID)
	res, _ := args.Get(0).(*models.Membership)
	return res, args.Error(1)
}

func (m *RepoMock) ListMembershipsByMember(ctx context.Context, memberID int) ([]models.Membership, error) {
	args := m.Called(ctx, memberID)
	res, _ := args.Get(0).([]models.Membership)
	return res, args.Error(1)
}

func (m *RepoMock) FindByCardNumber(ctx context.Context, number string) (*models.CardLookup, error) {
	args := m.Called(ctx, number)
	res, _ := args.Get(0).(*models.CardLookup)
	return res, args.Error(1)
}

func (m *RepoMock) CardNumberTaken(ctx context.Context, number string, exceptID int) (bool, error) {
	args := m.Called(ctx, number, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) SetCardNumber(ctx context.Context, id int, number *string) error {
	return m.Called(ctx, id, number).Error(0)
}

func (m *RepoMock) FindDuplicateCards(ctx context.Context) ([]models.CardIssue, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.CardIssue)
	return res, args.Error(1)
}

func (m *RepoMock) FindCardIssues(ctx context.Context, sportYearID int, invalidFormat bool) ([]models.CardIssue, error) {
	args := m.Called(ctx, sportYearID, invalidFormat)
	res, _ := args.Get(0).([]models.CardIssue)
	return res, args.Error(1)
}

func (m *RepoMock) AssignMissingCards(ctx context.Context, sportYearID int) (int, error) {
	args := m.Called(ctx, sportYearID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetSportYear(ctx context.Context, id int) (*models.SportYear, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.SportYear)
	return res, args.Error(1)
}

func (m *RepoMock) ActiveSportYear(ctx context.Context) (*models.SportYear, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*models.SportYear)
	return res, args.Error(1)
}

func (m *RepoMock) GetActivity(ctx context.Context, id int) (*models.Activity, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Activity)
	return res, args.Error(1)
}

func (m *RepoMock) FirstActiveActivity(ctx context.Context) (*models.Activity, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*models.Activity)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_SaveCreate(t *testing.T) {
	year := &models.SportYear{
		ID:         4,
		AnnoName:   "2024/2025",
		DataInizio: dates.MustParse("01-09-2024"),
		DataFine:   dates.MustParse("31-08-2025"),
		Active:     true,
	}
	nuoto := &models.Activity{ID: 2, Nome: "Nuoto", Importo: 12000, Attiva: true}
	req := models.MembershipRequest{SocioID: 9, DataIscrizione: dates.MustParse("15-09-2024"), AnnoSportivoID: 4}

	tests := []struct {
		name       string
		req        models.MembershipRequest
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "активность по умолчанию",
			req:  req,
			setupMocks: func(r *RepoMock) {
				r.On("GetSportYear", mock.Anything, 4).Return(year, nil)
				r.On("FirstActiveActivity", mock.Anything).Return(nuoto, nil)
				r.On("CreateMembership", mock.Anything, mock.MatchedBy(func(m models.Membership) bool {
					return m.SocioID == 9 && m.AttivitaID == 2 && m.Importo == 12000 &&
						m.AnnoSportivoID == 4 && m.DataScadenza.Equal(year.DataFine.Time)
				})).Return(31, "2024/0007", nil)
			},
		},
		{
			name: "неизвестный спортивный год",
			req:  req,
			setupMocks: func(r *RepoMock) {
				r.On("GetSportYear", mock.Anything, 4).Return(nil, storage.ErrNotFound)
			},
			wantErr: ErrInvalidSportYear,
		},
		{
			name: "нет активностей",
			req:  req,
			setupMocks: func(r *RepoMock) {
				r.On("GetSportYear", mock.Anything, 4).Return(year, nil)
				r.On("FirstActiveActivity", mock.Anything).Return(nil, storage.ErrNotFound)
			},
			wantErr: ErrNoActivity,
		},
		{
			name: "без года берётся активный",
			req:  models.MembershipRequest{SocioID: 9, DataIscrizione: dates.MustParse("15-09-2024"), AttivitaID: 2},
			setupMocks: func(r *RepoMock) {
				r.On("ActiveSportYear", mock.Anything).Return(year, nil)
				r.On("GetActivity", mock.Anything, 2).Return(nuoto, nil)
				r.On("CreateMembership", mock.Anything, mock.Anything).Return(31, "2024/0007", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			got, created, err := New(repo, newNoopLogger()).Save(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, created)
			} else {
				require.NoError(t, err)
				assert.True(t, created)
				assert.Equal(t, 31, got.ID)
				assert.Equal(t, "2024/0007", *got.NumeroTessera)
				assert.Equal(t, "Nuoto", *got.AttivitaNome)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_SaveUpdate(t *testing.T) {
	repo := new(RepoMock)
	enrolled := dates.MustParse("20-09-2024")
	repo.On("UpdateMembership", mock.Anything, 31, enrolled.Time, true).Return(storage.ErrNotFound)

	_, created, err := New(repo, newNoopLogger()).Save(context.Background(),
		models.MembershipRequest{ID: 31, SocioID: 9, DataIscrizione: enrolled, Firmato: true})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, created)
	repo.AssertExpectations(t)
}

func TestService_UpdateCard(t *testing.T) {
	tests := []struct {
		name       string
		req        models.CardUpdate
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "очистка номера",
			req:  models.CardUpdate{Empty: true},
			setupMocks: func(r *RepoMock) {
				r.On("SetCardNumber", mock.Anything, 5, (*string)(nil)).Return(nil)
			},
		},
		{
			name:       "пустой номер",
			req:        models.CardUpdate{Tessera: "  "},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrCardRequired,
		},
		{
			name: "номер занят",
			req:  models.CardUpdate{Tessera: "2024/0001"},
			setupMocks: func(r *RepoMock) {
				r.On("CardNumberTaken", mock.Anything, "2024/0001", 5).Return(true, nil)
			},
			wantErr: ErrCardDuplicate,
		},
		{
			name: "дубликат разрешён",
			req:  models.CardUpdate{Tessera: "2024/0001", Extend: true},
			setupMocks: func(r *RepoMock) {
				r.On("SetCardNumber", mock.Anything, 5, mock.MatchedBy(func(s *string) bool {
					return s != nil && *s == "2024/0001"
				})).Return(nil)
			},
		},
		{
			name: "абонемент не найден",
			req:  models.CardUpdate{Tessera: "2024/0099"},
			setupMocks: func(r *RepoMock) {
				r.On("CardNumberTaken", mock.Anything, "2024/0099", 5).Return(false, nil)
				r.On("SetCardNumber", mock.Anything, 5, mock.Anything).Return(storage.ErrNotFound)
			},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			err := New(repo, newNoopLogger()).UpdateCard(context.Background(), 5, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CheckCards(t *testing.T) {
	number := "24-1"
	tests := []struct {
		name       string
		checkType  int
		setupMocks func(r *RepoMock)
		wantCount  int
		wantErr    error
	}{
		{
			name:      "дубликаты",
			checkType: models.CardCheckDuplicates,
			setupMocks: func(r *RepoMock) {
				r.On("FindDuplicateCards", mock.Anything).Return([]models.CardIssue{{Duplicates: 2, IDs: []int{1, 2}}}, nil)
			},
			wantCount: 1,
		},
		{
			name:      "без номера в активном году",
			checkType: models.CardCheckMissing,
			setupMocks: func(r *RepoMock) {
				r.On("ActiveSportYear", mock.Anything).Return(&models.SportYear{ID: 4}, nil)
				r.On("FindCardIssues", mock.Anything, 4, false).Return([]models.CardIssue{{MembershipID: 3}, {MembershipID: 4}}, nil)
			},
			wantCount: 2,
		},
		{
			name:      "неверный формат",
			checkType: models.CardCheckFormat,
			setupMocks: func(r *RepoMock) {
				r.On("FindCardIssues", mock.Anything, 0, true).Return([]models.CardIssue{{NumeroTessera: &number}}, nil)
			},
			wantCount: 1,
		},
		{
			name:       "неизвестный тип",
			checkType:  7,
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrInvalidCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			got, err := New(repo, newNoopLogger()).CheckCards(context.Background(), tt.checkType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.checkType, got.Type)
			assert.Equal(t, tt.wantCount, got.Count)
			assert.NotEmpty(t, got.Description)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_LoadMissingCards(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ActiveSportYear", mock.Anything).Return(&models.SportYear{ID: 4}, nil)
	repo.On("AssignMissingCards", mock.Anything, 4).Return(6, nil)

	n, err := New(repo, newNoopLogger()).LoadMissingCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}
