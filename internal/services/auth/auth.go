// Package auth вход операторов клуба и первичная учётная запись администратора.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/club-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/club-manager/internal/lib/password"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

// Роли операторов.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// ErrInvalidCredentials неверное имя или пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с операторами в базе данных.
type UserRepository interface {
	// CreateUser сохраняет оператора и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает оператора по имени или ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CountUsers возвращает число операторов.
	CountUsers(ctx context.Context) (int, error)
}

// Service отвечает за вход и выпуск JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создаёт Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{users: users, jwtMaker: jwtMaker, log: log}
}

// Login проверяет пароль оператора и возвращает токен и роль.
// Неизвестное имя и неверный пароль дают одну и ту же ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// EnsureAdmin создаёт администратора, если операторов ещё нет.
// Возвращает true, если учётная запись создана.
func (s *Service) EnsureAdmin(ctx context.Context, username, rawPassword string) (bool, error) {
	const op = "auth.EnsureAdmin"

	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return false, nil
	}
	if rawPassword == "" {
		return false, fmt.Errorf("%s: admin password is not configured", op)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.users.CreateUser(ctx, models.User{
		UUID:         uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		Role:         RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account created", slog.String("username", username), slog.String("uid", uid))
	return true, nil
}
