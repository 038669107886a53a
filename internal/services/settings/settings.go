// Package settings настройки ассоциации с кешем в Redis.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

const cacheKey = "settings"

// Repository хранилище настроек.
type Repository interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, st models.Settings) error
	DeleteSettings(ctx context.Context) error
}

// Cache кеш настроек.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service чтение и запись настроек.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт Service.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, log: log}
}

// Get возвращает сохранённые настройки или значения по умолчанию.
func (s *Service) Get(ctx context.Context) (models.Settings, error) {
	var st models.Settings
	found, err := s.cache.Get(cacheKey, &st)
	if err != nil {
		s.log.Warn("failed to read settings from cache", sl.Err(err))
	}
	if found {
		return st, nil
	}

	stored, err := s.repo.GetSettings(ctx)
	switch {
	case err == nil:
		st = *stored
	case errors.Is(err, storage.ErrNotFound):
		st = models.DefaultSettings()
	default:
		return models.Settings{}, err
	}

	if err := s.cache.Set(cacheKey, st, s.ttl); err != nil {
		s.log.Warn("failed to cache settings", sl.Err(err))
	}
	return st, nil
}

// Save сохраняет настройки.
func (s *Service) Save(ctx context.Context, st models.Settings) (models.Settings, error) {
	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return models.Settings{}, err
	}
	s.invalidate()
	st.IsDefault = false
	s.log.Info("settings saved")
	return st, nil
}

// Reset удаляет сохранённые настройки и возвращает значения по умолчанию.
func (s *Service) Reset(ctx context.Context) (models.Settings, error) {
	if err := s.repo.DeleteSettings(ctx); err != nil {
		return models.Settings{}, err
	}
	s.invalidate()
	s.log.Info("settings reset to defaults")
	return models.DefaultSettings(), nil
}

func (s *Service) invalidate() {
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate settings cache", sl.Err(err))
	}
}
