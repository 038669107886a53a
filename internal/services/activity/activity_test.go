package activity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/cache"
	"github.com/magabrotheeeer/club-manager/internal/config"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListActivities(ctx context.Context, federationID, sectionID int) ([]models.Activity, error) {
	args := m.Called(ctx, federationID, sectionID)
	res, _ := args.Get(0).([]models.Activity)
	return res, args.Error(1)
}

func (m *RepoMock) ListActivityCodes(ctx context.Context) ([]models.ActivityCode, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.ActivityCode)
	return res, args.Error(1)
}

func (m *RepoMock) FederationActivitiesFull(ctx context.Context, federationID int) ([]models.ActivityStats, error) {
	args := m.Called(ctx, federationID)
	res, _ := args.Get(0).([]models.ActivityStats)
	return res, args.Error(1)
}

func (m *RepoMock) GetActivity(ctx context.Context, id int) (*models.Activity, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Activity)
	return res, args.Error(1)
}

func (m *RepoMock) SaveActivity(ctx context.Context, a models.Activity) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) DeleteActivity(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RepoMock) ListFederations(ctx context.Context) ([]models.Lookup, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.Lookup)
	return res, args.Error(1)
}

func (m *RepoMock) ListSections(ctx context.Context) ([]models.Lookup, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.Lookup)
	return res, args.Error(1)
}

func (m *RepoMock) CreateFederation(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateSection(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func setupService(t *testing.T) (*Service, *RepoMock, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	repo := new(RepoMock)
	return New(repo, c, time.Minute, newNoopLogger()), repo, mr
}

func TestService_ListCached(t *testing.T) {
	svc, repo, mr := setupService(t)
	ctx := context.Background()
	list := []models.Activity{
		{ID: 1, Nome: "Nuoto", Importo: 12000, SezioneID: 1, Attiva: true},
		{ID: 2, Nome: "Yoga", Importo: 4000},
	}
	repo.On("ListActivities", mock.Anything, 2, 0).Return(list, nil).Once()

	first, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	second, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, list, first)
	assert.Equal(t, list, second)
	assert.True(t, mr.Exists("activities:list:2:0"))
	repo.AssertNumberOfCalls(t, "ListActivities", 1)
}

func TestService_WritesInvalidateCache(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		write      func(s *Service) error
		wantErr    error
		wantKept   bool
	}{
		{
			name: "сохранение активности",
			setupMocks: func(r *RepoMock) {
				r.On("SaveActivity", mock.Anything, mock.MatchedBy(func(a models.Activity) bool {
					return a.Nome == "Judo"
				})).Return(7, nil)
			},
			write: func(s *Service) error {
				_, err := s.Save(context.Background(), models.Activity{Nome: "  Judo "})
				return err
			},
		},
		{
			name: "новая федерация",
			setupMocks: func(r *RepoMock) {
				r.On("CreateFederation", mock.Anything, "FIN").Return(3, nil)
			},
			write: func(s *Service) error {
				_, err := s.CreateFederation(context.Background(), " FIN ")
				return err
			},
		},
		{
			name: "удаление используемой активности",
			setupMocks: func(r *RepoMock) {
				r.On("DeleteActivity", mock.Anything, 4).Return(storage.ErrInUse)
			},
			write: func(s *Service) error {
				return s.Delete(context.Background(), 4)
			},
			wantErr:  storage.ErrInUse,
			wantKept: true,
		},
		{
			name: "дубликат секции",
			setupMocks: func(r *RepoMock) {
				r.On("CreateSection", mock.Anything, "Agonistica").Return(0, storage.ErrDuplicate)
			},
			write: func(s *Service) error {
				_, err := s.CreateSection(context.Background(), "Agonistica")
				return err
			},
			wantErr:  storage.ErrDuplicate,
			wantKept: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, mr := setupService(t)
			require.NoError(t, mr.Set("activities:codes", "[]"))
			require.NoError(t, mr.Set("member:1", "{}"))
			tt.setupMocks(repo)

			err := tt.write(svc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantKept, mr.Exists("activities:codes"))
			assert.True(t, mr.Exists("member:1"))
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CacheDown(t *testing.T) {
	svc, repo, mr := setupService(t)
	mr.Close()
	repo.On("ListFederations", mock.Anything).Return([]models.Lookup{{ID: 1, Nome: "FIN"}}, nil)

	got, err := svc.Federations(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
