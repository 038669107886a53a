// Package params параметры приложения, спортивные годы и месяцы.
package params

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

// ErrInvalidPeriod дата начала спортивного года не раньше даты конца.
var ErrInvalidPeriod = errors.New("start date must precede end date")

// Repository хранилище параметров и спортивных годов.
type Repository interface {
	ListParameters(ctx context.Context) ([]models.Parameter, error)
	CreateParameter(ctx context.Context, p models.Parameter) (int, error)
	UpdateParameter(ctx context.Context, id int, p models.Parameter) error
	DeactivateParameter(ctx context.Context, id int) error
	ActiveSportYear(ctx context.Context) (*models.SportYear, error)
	ListSportYears(ctx context.Context) ([]models.SportYear, error)
	CreateSportYear(ctx context.Context, y models.SportYear) (int, error)
}

// Service операции над параметрами.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// List возвращает активные параметры списком и по категориям.
func (s *Service) List(ctx context.Context) (models.ParameterList, error) {
	ps, err := s.repo.ListParameters(ctx)
	if err != nil {
		return models.ParameterList{}, err
	}
	grouped := make(map[string][]models.Parameter)
	for _, p := range ps {
		grouped[p.Category] = append(grouped[p.Category], p)
	}
	return models.ParameterList{Parameters: ps, Grouped: grouped}, nil
}

// Create добавляет параметр.
func (s *Service) Create(ctx context.Context, p models.Parameter) (int, error) {
	p.ParameterName = strings.TrimSpace(p.ParameterName)
	p.Defaults()
	id, err := s.repo.CreateParameter(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("parameter created", slog.Int("id", id), slog.String("name", p.ParameterName))
	return id, nil
}

// Update изменяет параметр.
func (s *Service) Update(ctx context.Context, id int, p models.Parameter) error {
	p.ParameterName = strings.TrimSpace(p.ParameterName)
	p.Defaults()
	return s.repo.UpdateParameter(ctx, id, p)
}

// Deactivate выключает параметр.
func (s *Service) Deactivate(ctx context.Context, id int) error {
	return s.repo.DeactivateParameter(ctx, id)
}

// CurrentSportYear возвращает активный спортивный год. Если его нет,
// возвращается год с ID 0, вычисленный по текущей дате.
func (s *Service) CurrentSportYear(ctx context.Context) (models.SportYear, error) {
	y, err := s.repo.ActiveSportYear(ctx)
	if err == nil {
		return *y, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.SportYear{}, err
	}

	start := sportyear.StartYear(s.now())
	from, to := sportyear.Bounds(start)
	return models.SportYear{
		AnnoName:   sportyear.Label(start),
		DataInizio: dates.New(from),
		DataFine:   dates.New(to),
		Active:     true,
	}, nil
}

// SportYears возвращает все спортивные годы.
func (s *Service) SportYears(ctx context.Context) ([]models.SportYear, error) {
	return s.repo.ListSportYears(ctx)
}

// CreateSportYear добавляет спортивный год.
func (s *Service) CreateSportYear(ctx context.Context, y models.SportYear) (int, error) {
	if !y.DataInizio.Before(y.DataFine.Time) {
		return 0, ErrInvalidPeriod
	}
	y.AnnoName = strings.TrimSpace(y.AnnoName)
	id, err := s.repo.CreateSportYear(ctx, y)
	if err != nil {
		return 0, err
	}
	s.log.Info("sport year created", slog.Int("id", id), slog.String("name", y.AnnoName))
	return id, nil
}

// Months возвращает месяцы в порядке спортивного года.
func (s *Service) Months() []sportyear.Month {
	return sportyear.Months()
}
