// Package mail отправляет письма членам клуба: шаблонные (scheda, ricevuta),
// произвольные и напоминания о медицинской справке.
package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/club-manager/internal/lib/dates"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

const (
	templateCustom      = "custom"
	templateCertificate = "certificato"
)

var (
	// ErrHTMLRequired произвольное письмо без htmlContent.
	ErrHTMLRequired = errors.New("htmlContent is required for custom messages")
	// ErrFileNameRequired вложение без имени файла.
	ErrFileNameRequired = errors.New("fileName is required with pdfBase64")
	// ErrInvalidAttachment вложение не в base64.
	ErrInvalidAttachment = errors.New("attachment is not valid base64")
	// ErrSendFailed SMTP-сервер не принял письмо.
	ErrSendFailed = errors.New("send failed")
)

// SettingsProvider источник названия клуба для подписи.
type SettingsProvider interface {
	Get(ctx context.Context) (models.Settings, error)
}

// Service составляет и отправляет письма.
type Service struct {
	transport smtp.TransportInterface
	settings  SettingsProvider
	sent      *prometheus.CounterVec
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт Service. sent считает письма по шаблону и результату.
func New(transport smtp.TransportInterface, settings SettingsProvider, sent *prometheus.CounterVec, log *slog.Logger) *Service {
	return &Service{transport: transport, settings: settings, sent: sent, log: log, now: time.Now}
}

// Send отправляет письмо по запросу /send-email.
func (s *Service) Send(ctx context.Context, req models.EmailRequest) (models.EmailResult, error) {
	if req.CustomMessage && strings.TrimSpace(req.HTMLContent) == "" {
		return models.EmailResult{}, ErrHTMLRequired
	}
	if req.PDFBase64 != "" && strings.TrimSpace(req.FileName) == "" {
		return models.EmailResult{}, ErrFileNameRequired
	}

	email := models.Email{To: req.RecipientEmail, ToName: req.RecipientName, Subject: req.Subject}
	kind := templateCustom
	if req.CustomMessage {
		email.HTML = req.HTMLContent
		email.Text = req.TextContent
		if email.Text == "" {
			email.Text = stripHTML(req.HTMLContent)
		}
	} else {
		kind = req.TemplateName()
		text, html, err := render(kind, templateData{
			Nome:           req.RecipientName,
			Club:           s.clubName(ctx),
			NumeroRicevuta: req.NumeroRicevuta,
		})
		if err != nil {
			return models.EmailResult{}, fmt.Errorf("render %s: %w", kind, err)
		}
		email.Text, email.HTML = text, html
	}

	if req.PDFBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			return models.EmailResult{}, fmt.Errorf("%w: %w", ErrInvalidAttachment, err)
		}
		email.Attachments = append(email.Attachments, models.Attachment{
			FileName:    req.FileName,
			ContentType: "application/pdf",
			Data:        data,
		})
	}

	id, err := s.deliver(ctx, kind, email)
	if err != nil {
		return models.EmailResult{}, err
	}
	return models.EmailResult{MessageID: id, Message: successMessage(kind)}, nil
}

// SendCertificateReminder напоминает члену клуба об истечении медицинской справки.
func (s *Service) SendCertificateReminder(ctx context.Context, r models.CertificateReminder) error {
	name := strings.TrimSpace(r.Nome + " " + r.Cognome)
	text, html, err := render(templateCertificate, templateData{
		Nome:     name,
		Club:     s.clubName(ctx),
		Scadenza: r.ScadenzaCertificato.Format(dates.LayoutPrint),
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", templateCertificate, err)
	}
	_, err = s.deliver(ctx, templateCertificate, models.Email{
		To:      r.Email,
		ToName:  name,
		Subject: "Scadenza certificato medico",
		Text:    text,
		HTML:    html,
	})
	return err
}

func (s *Service) deliver(ctx context.Context, kind string, email models.Email) (string, error) {
	from := mail.Address{Name: s.transport.GetFromName(), Address: s.transport.GetSMTPUser()}
	email.MessageID = smtp.MessageID(from.Address)

	msg, err := smtp.BuildMessage(from, email, s.now())
	if err != nil {
		return "", err
	}
	if err := smtp.Send(ctx, s.transport, []string{email.To}, msg); err != nil {
		s.sent.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	s.sent.WithLabelValues(kind, "ok").Inc()
	s.log.Info("email sent", slog.String("template", kind), slog.String("to", email.To),
		slog.String("message_id", email.MessageID))
	return email.MessageID, nil
}

func (s *Service) clubName(ctx context.Context) string {
	st, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Warn("failed to load settings for email signature", sl.Err(err))
		return models.DefaultSettings().NomeAssociazione
	}
	return st.NomeAssociazione
}

func successMessage(kind string) string {
	switch kind {
	case models.EmailTemplateCard:
		return "Scheda inviata con successo"
	case models.EmailTemplateReceipt:
		return "Ricevuta inviata con successo"
	default:
		return "Email personalizzata inviata con successo"
	}
}
