// Package member бизнес-логика членов клуба (soci) с кешем карточек в Redis.
package member

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// Repository хранилище членов клуба.
type Repository interface {
	ListMembers(ctx context.Context, f models.MemberFilter) ([]models.MemberListItem, error)
	GetMember(ctx context.Context, id int) (*models.Member, error)
	CreateMember(ctx context.Context, m models.Member) (int, error)
	UpdateMember(ctx context.Context, id int, m models.Member) error
	ListMemberTypes(ctx context.Context) ([]models.MemberType, error)
	ListMemberContacts(ctx context.Context, nome, cognome string) ([]models.MemberContact, error)
	FindMemberByTaxCodeAndType(ctx context.Context, taxCode string, memberType int) (*models.MemberRef, error)
}

// Cache кеш карточек.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service операции над членами клуба.
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

func cacheKey(id int) string {
	return fmt.Sprintf("member:%d", id)
}

// List возвращает членов клуба по фильтру.
func (s *Service) List(ctx context.Context, f models.MemberFilter) ([]models.MemberListItem, error) {
	return s.repo.ListMembers(ctx, f)
}

// Get возвращает члена клуба, сначала из кеша.
func (s *Service) Get(ctx context.Context, id int) (*models.Member, error) {
	key := cacheKey(id)
	var cached models.Member
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read member from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, m, s.ttl); err != nil {
		s.log.Warn("failed to cache member", slog.String("key", key), sl.Err(err))
	}
	return m, nil
}

// Create нормализует и сохраняет нового члена клуба.
func (s *Service) Create(ctx context.Context, m models.Member) (int, error) {
	m.Normalize()
	id, err := s.repo.CreateMember(ctx, m)
	if err != nil {
		return 0, err
	}
	s.log.Info("member created", slog.Int("id", id))
	return id, nil
}

// Update сохраняет изменения и сбрасывает кеш карточки.
func (s *Service) Update(ctx context.Context, id int, m models.Member) error {
	m.Normalize()
	if err := s.repo.UpdateMember(ctx, id, m); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate member cache", slog.Int("id", id), sl.Err(err))
	}
	return nil
}

// Types возвращает справочник типов членов клуба.
func (s *Service) Types(ctx context.Context) ([]models.MemberType, error) {
	return s.repo.ListMemberTypes(ctx)
}

// Contacts возвращает членов клуба с e-mail.
func (s *Service) Contacts(ctx context.Context, nome, cognome string) ([]models.MemberContact, error) {
	return s.repo.ListMemberContacts(ctx, nome, cognome)
}

// CheckType проверяет, есть ли член клуба с данным codice fiscale и типом.
func (s *Service) CheckType(ctx context.Context, taxCode string, memberType int) (models.TypeCheck, error) {
	ref, err := s.repo.FindMemberByTaxCodeAndType(ctx, taxCode, memberType)
	if err != nil {
		return models.TypeCheck{}, err
	}
	return models.TypeCheck{Exists: ref != nil, Data: ref}, nil
}
