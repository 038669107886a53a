// Package activity бизнес-логика активностей, федераций и секций.
// Справочники кешируются в Redis под префиксом activities: и сбрасываются
// целиком при любой записи.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

const cachePrefix = "activities:"

// Repository хранилище активностей.
type Repository interface {
	ListActivities(ctx context.Context, federationID, sectionID int) ([]models.Activity, error)
	ListActivityCodes(ctx context.Context) ([]models.ActivityCode, error)
	FederationActivitiesFull(ctx context.Context, federationID int) ([]models.ActivityStats, error)
	GetActivity(ctx context.Context, id int) (*models.Activity, error)
	SaveActivity(ctx context.Context, a models.Activity) (int, error)
	DeleteActivity(ctx context.Context, id int) error
	ListFederations(ctx context.Context) ([]models.Lookup, error)
	ListSections(ctx context.Context) ([]models.Lookup, error)
	CreateFederation(ctx context.Context, name string) (int, error)
	CreateSection(ctx context.Context, name string) (int, error)
}

// Cache кеш справочников.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	InvalidatePrefix(prefix string) error
}

// Service операции над активностями.
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

func cached[T any](s *Service, key string, load func() (T, error)) (T, error) {
	key = cachePrefix + key
	var v T
	found, err := s.cache.Get(key, &v)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(key, v, s.ttl); err != nil {
		s.log.Warn("failed to write to cache", slog.String("key", key), sl.Err(err))
	}
	return v, nil
}

func (s *Service) invalidate() {
	if err := s.cache.InvalidatePrefix(cachePrefix); err != nil {
		s.log.Warn("failed to invalidate activities cache", sl.Err(err))
	}
}

// List возвращает активности, нулевые federationID и sectionID не фильтруют.
func (s *Service) List(ctx context.Context, federationID, sectionID int) ([]models.Activity, error) {
	key := fmt.Sprintf("list:%d:%d", federationID, sectionID)
	return cached(s, key, func() ([]models.Activity, error) {
		return s.repo.ListActivities(ctx, federationID, sectionID)
	})
}

// Codes возвращает коды активностей.
func (s *Service) Codes(ctx context.Context) ([]models.ActivityCode, error) {
	return cached(s, "codes", func() ([]models.ActivityCode, error) {
		return s.repo.ListActivityCodes(ctx)
	})
}

// FederationFull возвращает активности федерации со счётчиками. Не кешируется.
func (s *Service) FederationFull(ctx context.Context, federationID int) ([]models.ActivityStats, error) {
	return s.repo.FederationActivitiesFull(ctx, federationID)
}

// Get возвращает активность по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.Activity, error) {
	return s.repo.GetActivity(ctx, id)
}

// Save создаёт активность при ID == 0, иначе изменяет.
func (s *Service) Save(ctx context.Context, a models.Activity) (int, error) {
	a.Nome = strings.TrimSpace(a.Nome)
	a.Codice = strings.TrimSpace(a.Codice)
	id, err := s.repo.SaveActivity(ctx, a)
	if err != nil {
		return 0, err
	}
	s.invalidate()
	s.log.Info("activity saved", slog.Int("id", id))
	return id, nil
}

// Delete удаляет активность без квитанций.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteActivity(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	s.log.Info("activity deleted", slog.Int("id", id))
	return nil
}

// Federations возвращает справочник федераций.
func (s *Service) Federations(ctx context.Context) ([]models.Lookup, error) {
	return cached(s, "federazioni", func() ([]models.Lookup, error) {
		return s.repo.ListFederations(ctx)
	})
}

// Sections возвращает справочник секций.
func (s *Service) Sections(ctx context.Context) ([]models.Lookup, error) {
	return cached(s, "sezioni", func() ([]models.Lookup, error) {
		return s.repo.ListSections(ctx)
	})
}

// CreateFederation добавляет федерацию.
func (s *Service) CreateFederation(ctx context.Context, name string) (int, error) {
	id, err := s.repo.CreateFederation(ctx, strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	s.invalidate()
	return id, nil
}

// CreateSection добавляет секцию.
func (s *Service) CreateSection(ctx context.Context, name string) (int, error) {
	id, err := s.repo.CreateSection(ctx, strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	s.invalidate()
	return id, nil
}
