// Package membership бизнес-логика абонементов и номеров членских карточек.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

var (
	// ErrInvalidSportYear спортивный год абонемента не найден.
	ErrInvalidSportYear = errors.New("invalid sport year")
	// ErrNoActivity нет активности для абонемента.
	ErrNoActivity = errors.New("no activity available")
	// ErrCardRequired номер карточки не передан.
	ErrCardRequired = errors.New("card number required")
	// ErrCardDuplicate номер карточки уже занят.
	ErrCardDuplicate = errors.New("card number already assigned")
	// ErrInvalidCheck неизвестный тип проверки карточек.
	ErrInvalidCheck = errors.New("invalid card check type")
)

// Repository хранилище абонементов и связанных справочников.
type Repository interface {
	CreateMembership(ctx context.Context, m models.Membership) (int, string, error)
	UpdateMembership(ctx context.Context, id int, enrollment time.Time, signed bool) error
	GetMembership(ctx context.Context, id int) (*models.Membership, error)
	CurrentMembership(ctx context.Context, memberID int) (*models.Membership, error)
	ListMembershipsByMember(ctx context.Context, memberID int) ([]models.Membership, error)
	FindByCardNumber(ctx context.Context, number string) (*models.CardLookup, error)
	CardNumberTaken(ctx context.Context, number string, exceptID int) (bool, error)
	SetCardNumber(ctx context.Context, id int, number *string) error
	FindDuplicateCards(ctx context.Context) ([]models.CardIssue, error)
	FindCardIssues(ctx context.Context, sportYearID int, invalidFormat bool) ([]models.CardIssue, error)
	AssignMissingCards(ctx context.Context, sportYearID int) (int, error)

	GetSportYear(ctx context.Context, id int) (*models.SportYear, error)
	ActiveSportYear(ctx context.Context) (*models.SportYear, error)
	GetActivity(ctx context.Context, id int) (*models.Activity, error)
	FirstActiveActivity(ctx context.Context) (*models.Activity, error)
}

// Service операции над абонементами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Save создаёт абонемент при ID == 0, иначе меняет дату записи и подпись.
// Второе значение true, если абонемент создан.
func (s *Service) Save(ctx context.Context, req models.MembershipRequest) (*models.Membership, bool, error) {
	if req.ID > 0 {
		if err := s.repo.UpdateMembership(ctx, req.ID, req.DataIscrizione.Time, req.Firmato); err != nil {
			return nil, false, err
		}
		m, err := s.repo.GetMembership(ctx, req.ID)
		return m, false, err
	}

	year, err := s.sportYear(ctx, req.AnnoSportivoID)
	if err != nil {
		return nil, false, err
	}
	activity, err := s.activity(ctx, req.AttivitaID)
	if err != nil {
		return nil, false, err
	}

	m := models.Membership{
		SocioID:        req.SocioID,
		DataIscrizione: req.DataIscrizione,
		DataScadenza:   dates.Ptr(year.DataFine.Time),
		Firmato:        req.Firmato,
		AnnoSportivoID: year.ID,
		AnnoSportivo:   year.AnnoName,
		AttivitaID:     activity.ID,
		AttivitaNome:   &activity.Nome,
		Importo:        activity.Importo,
		Attivo:         true,
	}
	id, card, err := s.repo.CreateMembership(ctx, m)
	if err != nil {
		return nil, false, err
	}
	m.ID = id
	m.NumeroTessera = &card
	s.log.Info("membership created", slog.Int("id", id), slog.String("card", card))
	return &m, true, nil
}

func (s *Service) sportYear(ctx context.Context, id int) (*models.SportYear, error) {
	var (
		year *models.SportYear
		err  error
	)
	if id > 0 {
		year, err = s.repo.GetSportYear(ctx, id)
	} else {
		year, err = s.repo.ActiveSportYear(ctx)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidSportYear
	}
	return year, err
}

func (s *Service) activity(ctx context.Context, id int) (*models.Activity, error) {
	var (
		a   *models.Activity
		err error
	)
	if id > 0 {
		a, err = s.repo.GetActivity(ctx, id)
	} else {
		a, err = s.repo.FirstActiveActivity(ctx)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoActivity
	}
	return a, err
}

// Current возвращает последний действующий абонемент члена клуба.
func (s *Service) Current(ctx context.Context, memberID int) (*models.Membership, error) {
	return s.repo.CurrentMembership(ctx, memberID)
}

// Get возвращает абонемент по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.Membership, error) {
	return s.repo.GetMembership(ctx, id)
}

// ListByMember возвращает все абонементы члена клуба.
func (s *Service) ListByMember(ctx context.Context, memberID int) ([]models.Membership, error) {
	return s.repo.ListMembershipsByMember(ctx, memberID)
}

// FindCard ищет абонемент по номеру карточки.
func (s *Service) FindCard(ctx context.Context, number string) (*models.CardLookup, error) {
	return s.repo.FindByCardNumber(ctx, strings.TrimSpace(number))
}

// UpdateCard меняет номер карточки абонемента. Empty очищает номер,
// Extend разрешает номер, уже присвоенный другому абонементу.
func (s *Service) UpdateCard(ctx context.Context, id int, req models.CardUpdate) error {
	if req.Empty {
		return s.repo.SetCardNumber(ctx, id, nil)
	}

	number := strings.TrimSpace(req.Tessera)
	if number == "" {
		return ErrCardRequired
	}
	if !req.Extend {
		taken, err := s.repo.CardNumberTaken(ctx, number, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrCardDuplicate
		}
	}
	return s.repo.SetCardNumber(ctx, id, &number)
}

// CheckCards проверяет номера карточек: 0 дубликаты, 1 отсутствующие
// в активном спортивном году, 2 неверный формат.
func (s *Service) CheckCards(ctx context.Context, checkType int) (models.CardCheck, error) {
	var (
		issues []models.CardIssue
		desc   string
		err    error
	)
	switch checkType {
	case models.CardCheckDuplicates:
		desc = "Tessere duplicate"
		issues, err = s.repo.FindDuplicateCards(ctx)
	case models.CardCheckMissing:
		desc = "Abbonamenti senza tessera nell'anno sportivo attivo"
		var year *models.SportYear
		year, err = s.sportYear(ctx, 0)
		if err != nil {
			return models.CardCheck{}, err
		}
		issues, err = s.repo.FindCardIssues(ctx, year.ID, false)
	case models.CardCheckFormat:
		desc = "Tessere con formato non valido (atteso YYYY/NNNN)"
		issues, err = s.repo.FindCardIssues(ctx, 0, true)
	default:
		return models.CardCheck{}, fmt.Errorf("%w: %d", ErrInvalidCheck, checkType)
	}
	if err != nil {
		return models.CardCheck{}, err
	}
	return models.CardCheck{Type: checkType, Description: desc, Issues: issues, Count: len(issues)}, nil
}

// LoadMissingCards присваивает номера абонементам активного спортивного года без карточки.
func (s *Service) LoadMissingCards(ctx context.Context) (int, error) {
	year, err := s.sportYear(ctx, 0)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.AssignMissingCards(ctx, year.ID)
	if err != nil {
		return 0, err
	}
	s.log.Info("missing cards assigned", slog.Int("sport_year_id", year.ID), slog.Int("count", n))
	return n, nil
}
