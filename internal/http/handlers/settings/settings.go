// Package settings содержит HTTP-обработчики /settings.
package settings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-manager/internal/http/response"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/lib/validate"
	"github.com/magabrotheeeer/club-manager/internal/models"
)

type Service interface {
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, st models.Settings) (models.Settings, error)
	Reset(ctx context.Context) (models.Settings, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Get godoc
// @Summary Настройки клуба
// @Description Если ничего не сохранено, возвращаются значения по умолчанию с isDefault=true.
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /settings [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Get"
	log := h.logger(r, op)

	st, err := h.service.Get(r.Context())
	if err != nil {
		log.Error("failed to load settings", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(st))
}

// Save godoc
// @Summary Сохранение настроек клуба
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body models.Settings true "Настройки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Save"
	log := h.logger(r, op)

	var st models.Settings
	if err := render.DecodeJSON(r.Body, &st); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(st); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	saved, err := h.service.Save(r.Context(), st)
	if err != nil {
		log.Error("failed to save settings", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("settings saved")
	render.JSON(w, r, response.OKWithMessage(saved, "Impostazioni salvate con successo"))
}

// Reset удаляет сохранённые настройки.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Reset"
	log := h.logger(r, op)

	st, err := h.service.Reset(r.Context())
	if err != nil {
		log.Error("failed to reset settings", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("settings reset")
	render.JSON(w, r, response.OKWithMessage(st, "Impostazioni ripristinate"))
}
