// Package sender обрабатывает напоминания из очереди notification.certificate.
package sender

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

// Mailer отправка напоминания члену клуба.
type Mailer interface {
	SendCertificateReminder(ctx context.Context, r models.CertificateReminder) error
}

// Service обработчик сообщений очереди.
type Service struct {
	mailer Mailer
	log    *slog.Logger
}

// New создаёт Service.
func New(mailer Mailer, log *slog.Logger) *Service {
	return &Service{mailer: mailer, log: log}
}

// CertificateHandler возвращает обработчик тела сообщения для rabbitmq.ConsumerMessage.
// Нечитаемые сообщения отбрасываются, ошибка SMTP возвращает сообщение в очередь.
func (s *Service) CertificateHandler(ctx context.Context) func([]byte) error {
	return func(body []byte) error {
		var r models.CertificateReminder
		if err := json.Unmarshal(body, &r); err != nil {
			s.log.Error("failed to unmarshal reminder, dropping", sl.Err(err))
			return nil
		}
		if r.Email == "" {
			s.log.Warn("reminder without email, dropping", slog.Int("member_id", r.MemberID))
			return nil
		}
		if err := s.mailer.SendCertificateReminder(ctx, r); err != nil {
			s.log.Error("failed to send reminder", slog.Int("member_id", r.MemberID), sl.Err(err))
			return err
		}
		return nil
	}
}
