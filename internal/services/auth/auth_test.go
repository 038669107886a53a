package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/club-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/club-manager/internal/lib/password"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/auth"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, role, userUID string) (string, error) {
	args := m.Called(username, role, userUID)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.Claims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("segreto123")
	require.NoError(t, err)
	operator := &models.User{UUID: "uid-1", Username: "segreteria", PasswordHash: hash, Role: auth.RoleOperator}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
		anyErr     bool
	}{
		{
			name:     "успешный вход",
			username: "segreteria",
			password: "segreto123",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "segreteria").Return(operator, nil)
				j.On("GenerateToken", "segreteria", auth.RoleOperator, "uid-1").Return("token-abc", nil)
			},
			wantToken: "token-abc",
		},
		{
			name:     "неверный пароль",
			username: "segreteria",
			password: "sbagliato",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "segreteria").Return(operator, nil)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "неизвестный оператор",
			username: "ospite",
			password: "segreto123",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "ospite").Return(nil, storage.ErrNotFound)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "ошибка базы",
			username: "segreteria",
			password: "segreto123",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "segreteria").Return(nil, errors.New("db down"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := new(JwtMakerMock)
			tt.setupMocks(repo, maker)

			token, role, err := auth.New(repo, maker, newNoopLogger()).Login(context.Background(), tt.username, tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, auth.RoleOperator, role)
			}
			maker.AssertExpectations(t)
		})
	}
}

func TestService_EnsureAdmin(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		password    string
		wantCreated bool
		wantErr     bool
	}{
		{name: "пустая таблица", count: 0, password: "admin-pass", wantCreated: true},
		{name: "операторы уже есть", count: 2, password: "admin-pass"},
		{name: "пароль не задан", count: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			repo.On("CountUsers", mock.Anything).Return(tt.count, nil)
			repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
				return u.Username == "admin" && u.Role == auth.RoleAdmin && u.UUID != "" &&
					password.CompareHash(u.PasswordHash, "admin-pass") == nil
			})).Return("new-uid", nil).Maybe()

			created, err := auth.New(repo, new(JwtMakerMock), newNoopLogger()).
				EnsureAdmin(context.Background(), "admin", tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			if !tt.wantCreated {
				repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			}
		})
	}
}
