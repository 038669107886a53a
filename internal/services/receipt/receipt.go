// Package receipt бизнес-логика квитанций за активности.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/club-manager/internal/lib/ledger"
	"github.com/magabrotheeeer/club-manager/internal/lib/money"
	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

// Repository хранилище квитанций.
type Repository interface {
	CreateReceipt(ctx context.Context, r models.Receipt) (int, error)
	UpdateReceipt(ctx context.Context, id int, r models.Receipt) error
	DeleteReceipt(ctx context.Context, id int) error
	ListReceiptsRange(ctx context.Context, f models.ReceiptFilter) ([]models.ReceiptListItem, error)
	ListReceiptsByMember(ctx context.Context, memberID int) ([]models.ReceiptListItem, error)
	ReceiptForPrint(ctx context.Context, memberID, receiptID int) (*models.ReceiptPrint, error)
	ReceiptTotals(ctx context.Context, memberID int) (count int, amount, collected int64, err error)
	GetMember(ctx context.Context, id int) (*models.Member, error)
	CurrentMembership(ctx context.Context, memberID int) (*models.Membership, error)
}

// Service операции над квитанциями.
type Service struct {
	repo    Repository
	created prometheus.Counter
	log     *slog.Logger
}

// New создаёт Service. created считает выданные квитанции.
func New(repo Repository, created prometheus.Counter, log *slog.Logger) *Service {
	return &Service{repo: repo, created: created, log: log}
}

// Create сохраняет квитанцию.
func (s *Service) Create(ctx context.Context, r models.Receipt) (models.CreatedReceipt, error) {
	if r.TipologiaPagamento == 0 {
		r.TipologiaPagamento = models.PaymentCash
	}
	id, err := s.repo.CreateReceipt(ctx, r)
	if err != nil {
		return models.CreatedReceipt{}, err
	}
	s.created.Inc()
	s.log.Info("receipt created", slog.Int("id", id), slog.Int("member_id", r.SocioID))
	return models.CreatedReceipt{ID: id, ReturnCode: true, TestPrint: true}, nil
}

// Update изменяет квитанцию.
func (s *Service) Update(ctx context.Context, id int, r models.Receipt) error {
	if r.TipologiaPagamento == 0 {
		r.TipologiaPagamento = models.PaymentCash
	}
	return s.repo.UpdateReceipt(ctx, id, r)
}

// Delete аннулирует квитанцию.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteReceipt(ctx, id); err != nil {
		return err
	}
	s.log.Info("receipt annulled", slog.Int("id", id))
	return nil
}

// Build возвращает квитанцию для печати с номером счёта и суммами в евро.
func (s *Service) Build(ctx context.Context, memberID, receiptID int) (*models.ReceiptPrint, error) {
	p, err := s.repo.ReceiptForPrint(ctx, memberID, receiptID)
	if err != nil {
		return nil, err
	}
	p.NFattura = fmt.Sprintf("%d-%d", sportyear.StartYear(p.DataRicevuta.Time), p.Numero)
	p.Pagato = money.Euro(p.ImportoRicevuta)
	p.Incassato = money.Euro(p.ImportoIncassato)
	p.TipologiaPagamento = models.PaymentTypeName(p.Receipt.TipologiaPagamento)
	return p, nil
}

// ByMember возвращает квитанции члена клуба, новые первыми.
func (s *Service) ByMember(ctx context.Context, memberID int) ([]models.ReceiptListItem, error) {
	return s.repo.ListReceiptsByMember(ctx, memberID)
}

// Scheda возвращает карточку члена клуба со сводкой по квитанциям.
func (s *Service) Scheda(ctx context.Context, memberID int) (*models.MemberCard, error) {
	m, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	card := &models.MemberCard{Member: *m}

	ms, err := s.repo.CurrentMembership(ctx, memberID)
	switch {
	case err == nil:
		card.AttivitaNome = ms.AttivitaNome
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	count, amount, collected, err := s.repo.ReceiptTotals(ctx, memberID)
	if err != nil {
		return nil, err
	}
	card.NumeroRicevute = count
	card.TotaleRicevute = money.Euro(amount)
	card.TotaleIncassato = money.Euro(collected)
	return card, nil
}

// Range возвращает квитанции периода с итогами по типам оплаты.
func (s *Service) Range(ctx context.Context, f models.ReceiptFilter) (models.ReceiptRange, error) {
	items, err := s.repo.ListReceiptsRange(ctx, f)
	if err != nil {
		return models.ReceiptRange{}, err
	}
	return ledger.ReceiptRange(items, f), nil
}
