// Package expense расходы клуба.
package expense

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

// Repository хранилище расходов.
type Repository interface {
	CreateExpense(ctx context.Context, e models.Expense) (int, error)
	ListExpenses(ctx context.Context, r models.DateRange) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, id int) error
}

// Service операции над расходами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create сохраняет расход. Тип оплаты по умолчанию наличные.
func (s *Service) Create(ctx context.Context, e models.Expense) (int, error) {
	e.Fornitore = strings.TrimSpace(e.Fornitore)
	if e.TipoPagamento == 0 {
		e.TipoPagamento = models.PaymentCash
	}
	id, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return 0, err
	}
	s.log.Info("expense created", slog.Int("id", id))
	return id, nil
}

// List возвращает расходы периода.
func (s *Service) List(ctx context.Context, r models.DateRange) ([]models.Expense, error) {
	items, err := s.repo.ListExpenses(ctx, r)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Expense{}
	}
	return items, nil
}

// Delete удаляет расход.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteExpense(ctx, id)
}
