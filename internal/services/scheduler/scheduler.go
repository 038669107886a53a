// Package scheduler периодически ищет членов клуба с истекающей медицинской
// справкой и публикует напоминания в RabbitMQ.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// CertificateRepository источник истекающих справок и журнал отправленных напоминаний.
type CertificateRepository interface {
	FindCertificatesExpiring(ctx context.Context, from, to time.Time) ([]models.CertificateReminder, error)
	MarkCertificateReminded(ctx context.Context, memberID int, expiry time.Time) error
}

// Service планировщик напоминаний.
type Service struct {
	repo      CertificateRepository
	publisher rabbitmq.Publisher
	published prometheus.Counter
	daysAhead int
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт Service. daysAhead задаёт окно поиска от сегодняшнего дня.
func New(repo CertificateRepository, publisher rabbitmq.Publisher, published prometheus.Counter, daysAhead int, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		published: published,
		daysAhead: daysAhead,
		log:       log,
		now:       time.Now,
	}
}

// Run выполняет проверку сразу и затем каждые interval до отмены ctx.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		}
	}
}

// RunOnce публикует напоминания для справок, истекающих в ближайшие daysAhead дней.
// Каждая справка напоминается один раз: после публикации она отмечается в репозитории.
// Возвращает число опубликованных сообщений.
func (s *Service) RunOnce(ctx context.Context) int {
	from := dates.Truncate(s.now())
	to := from.AddDate(0, 0, s.daysAhead)
	s.log.Info("looking for expiring medical certificates",
		slog.String("from", from.Format(dates.LayoutISO)), slog.String("to", to.Format(dates.LayoutISO)))

	reminders, err := s.repo.FindCertificatesExpiring(ctx, from, to)
	if err != nil {
		s.log.Error("failed to find expiring certificates", sl.Err(err))
		return 0
	}
	if len(reminders) == 0 {
		s.log.Info("no expiring certificates found")
		return 0
	}

	var n int
	for _, r := range reminders {
		if err := rabbitmq.PublishMessage(s.publisher, rabbitmq.NotificationsExchange, rabbitmq.CertificateRoutingKey, r); err != nil {
			s.log.Error("failed to publish reminder", slog.Int("member_id", r.MemberID), sl.Err(err))
			continue
		}
		s.published.Inc()
		n++
		if err := s.repo.MarkCertificateReminded(ctx, r.MemberID, r.ScadenzaCertificato.Time); err != nil {
			s.log.Error("failed to mark reminder as sent", slog.Int("member_id", r.MemberID), sl.Err(err))
		}
	}
	s.log.Info("reminders published", slog.Int("count", n), slog.Int("found", len(reminders)))
	return n
}
