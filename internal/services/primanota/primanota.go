// Package primanota собирает prima nota (движения с нарастающим сальдо)
// и статистику поступлений.
package primanota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/club-manager/internal/lib/ledger"
	"github.com/magabrotheeeer/club-manager/internal/lib/money"
	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// Типы статистики.
const (
	StatMonthly  = 0
	StatActivity = 1
	StatTrend    = 2
)

var (
	// ErrInvalidType неизвестный тип prima nota.
	ErrInvalidType = errors.New("invalid ledger type")
	// ErrInvalidStatistic неизвестный тип статистики.
	ErrInvalidStatistic = errors.New("invalid statistic type")
)

// Repository источник движений и агрегатов.
type Repository interface {
	IncomeMovements(ctx context.Context, r models.DateRange) ([]models.Movement, error)
	ExpenseMovements(ctx context.Context, r models.DateRange) ([]models.Movement, error)
	MonthlyIncome(ctx context.Context, from, to time.Time) ([]models.MonthAmount, error)
	ActivityIncome(ctx context.Context, from, to time.Time) ([]models.ActivityAmount, error)
}

// Service prima nota и статистика.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Ledger возвращает движения выбранного типа: 0 все, 1 поступления, 2 расходы.
func (s *Service) Ledger(ctx context.Context, kind int, r models.DateRange) (models.Ledger, error) {
	var income, expenses []models.Movement
	var err error

	switch kind {
	case models.LedgerAll:
		if income, err = s.repo.IncomeMovements(ctx, r); err != nil {
			return models.Ledger{}, err
		}
		if expenses, err = s.repo.ExpenseMovements(ctx, r); err != nil {
			return models.Ledger{}, err
		}
	case models.LedgerIncome:
		if income, err = s.repo.IncomeMovements(ctx, r); err != nil {
			return models.Ledger{}, err
		}
	case models.LedgerExpenses:
		if expenses, err = s.repo.ExpenseMovements(ctx, r); err != nil {
			return models.Ledger{}, err
		}
	default:
		return models.Ledger{}, fmt.Errorf("%w: %d", ErrInvalidType, kind)
	}

	return ledger.Build(ledger.Merge(income, expenses), kind, r), nil
}

// Print возвращает prima nota с шапкой и строками для печати.
func (s *Service) Print(ctx context.Context, kind int, r models.DateRange) (models.LedgerPrint, error) {
	l, err := s.Ledger(ctx, kind, r)
	if err != nil {
		return models.LedgerPrint{}, err
	}
	return ledger.Print(l, kind, r, s.now()), nil
}

// Statistic возвращает статистику: 0 по месяцам текущего спортивного года,
// 1 по активностям, 2 тренд за двенадцать месяцев.
func (s *Service) Statistic(ctx context.Context, kind int) (any, error) {
	switch kind {
	case StatMonthly:
		return s.monthly(ctx)
	case StatActivity:
		rows, err := s.repo.ActivityIncome(ctx, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		totals, _ := ledger.ActivityTotals(rows)
		return models.ActivityStatsReport{PerAttivita: totals}, nil
	case StatTrend:
		now := s.now()
		rows, err := s.repo.MonthlyIncome(ctx, ledger.TrendStart(now), now)
		if err != nil {
			return nil, err
		}
		return models.TrendReport{TrendMensile: ledger.Trend(now, rows)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatistic, kind)
	}
}

func (s *Service) monthly(ctx context.Context) (models.MonthlyStats, error) {
	start := sportyear.StartYear(s.now())
	from, to := sportyear.Bounds(start)

	rows, err := s.repo.MonthlyIncome(ctx, from, to)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	shown := start
	if len(rows) == 0 {
		shown = start - 1
		prevFrom, prevTo := sportyear.Bounds(shown)
		if rows, err = s.repo.MonthlyIncome(ctx, prevFrom, prevTo); err != nil {
			return models.MonthlyStats{}, err
		}
		s.log.Debug("current sport year empty, showing previous", slog.Int("start_year", shown))
	}

	activities, err := s.repo.ActivityIncome(ctx, from, to)
	if err != nil {
		return models.MonthlyStats{}, err
	}
	perActivity, total := ledger.ActivityTotals(activities)

	return models.MonthlyStats{
		AnnoSportivo:   sportyear.Label(shown),
		Mensile:        ledger.SportYearMonths(shown, rows),
		CategorieStats: perActivity,
		TotaleEntrate:  money.Euro(total),
	}, nil
}
