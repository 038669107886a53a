// Package entityreceipt квитанции учреждений (enti) и их prima nota.
package entityreceipt

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/club-manager/internal/lib/ledger"
	"github.com/magabrotheeeer/club-manager/internal/lib/money"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// Repository хранилище квитанций учреждений.
type Repository interface {
	CreateEntityReceipt(ctx context.Context, r models.EntityReceipt) (int, error)
	ListEntityReceipts(ctx context.Context, r models.DateRange, ascending bool) ([]models.EntityReceipt, error)
	GetEntityReceipt(ctx context.Context, id int) (*models.EntityReceipt, error)
	UpdateEntityReceipt(ctx context.Context, id int, r models.EntityReceipt) error
	DeleteEntityReceipt(ctx context.Context, id int) error
}

// Service операции над квитанциями учреждений.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create сохраняет квитанцию.
func (s *Service) Create(ctx context.Context, r models.EntityReceipt) (int, error) {
	r.Ente = strings.TrimSpace(r.Ente)
	id, err := s.repo.CreateEntityReceipt(ctx, r)
	if err != nil {
		return 0, err
	}
	s.log.Info("entity receipt created", slog.Int("id", id))
	return id, nil
}

// List возвращает квитанции периода, новые первыми, с общим итогом.
func (s *Service) List(ctx context.Context, r models.DateRange) (models.EntityReceiptList, error) {
	items, err := s.repo.ListEntityReceipts(ctx, r, false)
	if err != nil {
		return models.EntityReceiptList{}, err
	}
	if items == nil {
		items = []models.EntityReceipt{}
	}
	var total int64
	for _, it := range items {
		total += it.Importo
	}
	return models.EntityReceiptList{Items: items, TotaleGenerale: money.Euro(total)}, nil
}

// Get возвращает квитанцию по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.EntityReceipt, error) {
	return s.repo.GetEntityReceipt(ctx, id)
}

// Update изменяет квитанцию.
func (s *Service) Update(ctx context.Context, id int, r models.EntityReceipt) error {
	r.Ente = strings.TrimSpace(r.Ente)
	return s.repo.UpdateEntityReceipt(ctx, id, r)
}

// Delete удаляет квитанцию.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteEntityReceipt(ctx, id)
}

// Ledger возвращает квитанции учреждений как поступления prima nota
// в хронологическом порядке с нарастающим сальдо.
func (s *Service) Ledger(ctx context.Context, r models.DateRange) (models.Ledger, error) {
	items, err := s.repo.ListEntityReceipts(ctx, r, true)
	if err != nil {
		return models.Ledger{}, err
	}
	ms := make([]models.Movement, 0, len(items))
	for i, it := range items {
		ms = append(ms, models.Movement{
			ID:          it.ID,
			Data:        it.DataRicevuta,
			Numero:      i + 1,
			Tipo:        models.MovementIncome,
			Descrizione: it.Descrizione,
			Controparte: it.Ente,
			Importo:     it.Importo,
		})
	}
	ledger.RunningBalance(ms)
	return ledger.Build(ms, models.LedgerIncome, r), nil
}
