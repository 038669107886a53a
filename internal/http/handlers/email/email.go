// Package email содержит HTTP-обработчик POST /send-email.
package email

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-manager/internal/http/response"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/lib/validate"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/mail"
)

// Service отправка писем.
type Service interface {
	Send(ctx context.Context, req models.EmailRequest) (models.EmailResult, error)
}

// Handler обработчик отправки писем.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправка письма
// @Description Шаблон scheda или ricevuta либо произвольный HTML, с необязательным PDF во вложении.
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Письмо"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse "SMTP-сервер не принял письмо"
// @Security BearerAuth
// @Router /send-email [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.email.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.EmailRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}
	log.Info("email request validated", slog.String("to", req.RecipientEmail), slog.String("template", req.TemplateName()))

	res, err := h.service.Send(r.Context(), req)
	switch {
	case errors.Is(err, mail.ErrHTMLRequired):
		response.Send(w, r, http.StatusBadRequest, response.Error("htmlContent obbligatorio per i messaggi personalizzati"))
		return
	case errors.Is(err, mail.ErrFileNameRequired):
		response.Send(w, r, http.StatusBadRequest, response.Error("fileName obbligatorio quando è presente un allegato"))
		return
	case errors.Is(err, mail.ErrInvalidAttachment):
		response.Send(w, r, http.StatusBadRequest, response.Error("Allegato PDF non valido"))
		return
	case errors.Is(err, mail.ErrSendFailed):
		log.Error("smtp delivery failed", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.ErrorWithDetail("Errore durante l'invio dell'email", err.Error()))
		return
	case err != nil:
		log.Error("failed to send email", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}

	log.Info("email sent", slog.String("message_id", res.MessageID))
	render.JSON(w, r, response.OKWithMessage(map[string]any{"messageId": res.MessageID}, res.Message))
}
