package member

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListMembers(ctx context.Context, f models.MemberFilter) ([]models.MemberListItem, error) {
	args := m.Called(ctx, f)
	res, _ := args.Get(0).([]models.MemberListItem)
	return res, args.Error(1)
}

func (m *RepoMock) GetMember(ctx context.Context, id int) (*models.Member, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Member)
	return res, args.Error(1)
}

func (m *RepoMock) CreateMember(ctx context.Context, mb models.Member) (int, error) {
	args := m.Called(ctx, mb)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateMember(ctx context.Context, id int, mb models.Member) error {
	return m.Called(ctx, id, mb).Error(0)
}

func (m *RepoMock) ListMemberTypes(ctx context.Context) ([]models.MemberType, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.MemberType)
	return res, args.Error(1)
}

func (m *RepoMock) ListMemberContacts(ctx context.Context, nome, cognome string) ([]models.MemberContact, error) {
	args := m.Called(ctx, nome, cognome)
	res, _ := args.Get(0).([]models.MemberContact)
	return res, args.Error(1)
}

func (m *RepoMock) FindMemberByTaxCodeAndType(ctx context.Context, taxCode string, memberType int) (*models.MemberRef, error) {
	args := m.Called(ctx, taxCode, memberType)
	res, _ := args.Get(0).(*models.MemberRef)
	return res, args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Get(t *testing.T) {
	rossi := &models.Member{ID: 5, Nome: "Mario", Cognome: "Rossi"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
		wantNome   string
	}{
		{
			name: "из кеша",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "member:5", mock.Anything).Run(func(args mock.Arguments) {
					*args.Get(1).(*models.Member) = *rossi
				}).Return(true, nil)
			},
			wantNome: "Mario",
		},
		{
			name: "промах кеша, чтение из базы",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "member:5", mock.Anything).Return(false, nil)
				r.On("GetMember", mock.Anything, 5).Return(rossi, nil)
				c.On("Set", "member:5", rossi, time.Hour).Return(nil)
			},
			wantNome: "Mario",
		},
		{
			name: "кеш недоступен, чтение из базы",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "member:5", mock.Anything).Return(false, errors.New("redis down"))
				r.On("GetMember", mock.Anything, 5).Return(rossi, nil)
				c.On("Set", "member:5", rossi, time.Hour).Return(errors.New("redis down"))
			},
			wantNome: "Mario",
		},
		{
			name: "не найден",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "member:5", mock.Anything).Return(false, nil)
				r.On("GetMember", mock.Anything, 5).Return(nil, storage.ErrNotFound)
			},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := New(repo, cache, time.Hour, newNoopLogger())

			got, err := svc.Get(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantNome, got.Nome)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_CreateNormalizes(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	repo.On("CreateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
		return m.CodiceFiscale == "RSSMRA80A01H501U" && m.Sesso == "M" && m.Nome == "Mario"
	})).Return(11, nil)

	svc := New(repo, cache, time.Hour, newNoopLogger())
	id, err := svc.Create(context.Background(), models.Member{
		Nome:          " Mario ",
		Cognome:       "Rossi",
		CodiceFiscale: "rssmra80a01h501u",
		Sesso:         "Maschio",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, id)
	repo.AssertExpectations(t)
}

func TestService_Update(t *testing.T) {
	tests := []struct {
		name      string
		updateErr error
		wantErr   error
		wantInval bool
	}{
		{name: "кеш сброшен", wantInval: true},
		{name: "не найден, кеш не трогаем", updateErr: storage.ErrNotFound, wantErr: storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			repo.On("UpdateMember", mock.Anything, 3, mock.Anything).Return(tt.updateErr)
			if tt.wantInval {
				cache.On("Invalidate", "member:3").Return(nil)
			}

			err := New(repo, cache, time.Hour, newNoopLogger()).Update(context.Background(), 3, models.Member{Nome: "Anna"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			cache.AssertExpectations(t)
		})
	}
}

func TestService_CheckType(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	repo.On("FindMemberByTaxCodeAndType", mock.Anything, "RSSMRA80A01H501U", 1).
		Return(&models.MemberRef{ID: 2, Nome: "Mario", Cognome: "Rossi"}, nil)
	repo.On("FindMemberByTaxCodeAndType", mock.Anything, "RSSMRA80A01H501U", 3).
		Return(nil, nil)

	svc := New(repo, cache, time.Hour, newNoopLogger())

	got, err := svc.CheckType(context.Background(), "RSSMRA80A01H501U", 1)
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.Equal(t, 2, got.Data.ID)

	got, err = svc.CheckType(context.Background(), "RSSMRA80A01H501U", 3)
	require.NoError(t, err)
	assert.False(t, got.Exists)
	assert.Nil(t, got.Data)
}
