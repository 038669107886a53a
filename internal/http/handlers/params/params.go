// Package params содержит HTTP-обработчики /params: параметры приложения,
// спортивные годы и месяцы спортивного года.
package params

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-manager/internal/http/request"
	"github.com/magabrotheeeer/club-manager/internal/http/response"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/lib/sportyear"
	"github.com/magabrotheeeer/club-manager/internal/lib/validate"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/params"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

const (
	msgNotFound  = "Parametro non trovato"
	msgDuplicate = "Esiste già un parametro con questo nome"
)

// Service бизнес-логика параметров и спортивных годов.
type Service interface {
	List(ctx context.Context) (models.ParameterList, error)
	Create(ctx context.Context, p models.Parameter) (int, error)
	Update(ctx context.Context, id int, p models.Parameter) error
	Deactivate(ctx context.Context, id int) error
	CurrentSportYear(ctx context.Context) (models.SportYear, error)
	SportYears(ctx context.Context) ([]models.SportYear, error)
	CreateSportYear(ctx context.Context, y models.SportYear) (int, error)
	Months() []sportyear.Month
}

// Handler обработчики /params.
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

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func internal(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	log.Error(msg, sl.Err(err))
	response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
}

// List godoc
// @Summary Параметры приложения
// @Description Активные параметры списком и сгруппированные по категории.
// @Tags Params
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /params [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.List"
	log := h.logger(r, op)

	list, err := h.service.List(r.Context())
	if err != nil {
		internal(w, r, log, "failed to list parameters", err)
		return
	}
	render.JSON(w, r, response.OK(list))
}

func (h *Handler) decodeParameter(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Parameter, bool) {
	var p models.Parameter
	if err := render.DecodeJSON(r.Body, &p); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return p, false
	}
	if err := h.validate.Struct(p); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return p, false
	}
	return p, true
}

// Create добавляет параметр.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.Create"
	log := h.logger(r, op)

	p, ok := h.decodeParameter(w, r, log)
	if !ok {
		return
	}
	id, err := h.service.Create(r.Context(), p)
	if errors.Is(err, storage.ErrDuplicate) {
		response.Send(w, r, http.StatusBadRequest, response.Error(msgDuplicate))
		return
	}
	if err != nil {
		internal(w, r, log, "failed to create parameter", err)
		return
	}
	log.Info("parameter created", slog.Int("id", id), slog.String("name", p.ParameterName))
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(map[string]any{"id": id}, "Parametro creato con successo"))
}

// Update изменяет параметр.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.Update"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	p, ok := h.decodeParameter(w, r, log)
	if !ok {
		return
	}
	err = h.service.Update(r.Context(), id, p)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	case errors.Is(err, storage.ErrDuplicate):
		response.Send(w, r, http.StatusBadRequest, response.Error(msgDuplicate))
		return
	case err != nil:
		internal(w, r, log, "failed to update parameter", err)
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Parametro aggiornato con successo"))
}

// Deactivate выключает параметр.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.Deactivate"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	err = h.service.Deactivate(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		internal(w, r, log, "failed to deactivate parameter", err)
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Parametro disattivato"))
}

// CurrentSportYear godoc
// @Summary Активный спортивный год
// @Description Если активного года нет, возвращается год 1 сентября - 31 августа с id 0.
// @Tags Params
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /params/anno-sportivo [get]
func (h *Handler) CurrentSportYear(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.CurrentSportYear"
	log := h.logger(r, op)

	y, err := h.service.CurrentSportYear(r.Context())
	if err != nil {
		internal(w, r, log, "failed to load sport year", err)
		return
	}
	render.JSON(w, r, response.OK(y))
}

// SportYears возвращает все спортивные годы.
func (h *Handler) SportYears(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.SportYears"
	log := h.logger(r, op)

	years, err := h.service.SportYears(r.Context())
	if err != nil {
		internal(w, r, log, "failed to list sport years", err)
		return
	}
	render.JSON(w, r, response.OK(years))
}

// CreateSportYear добавляет спортивный год.
func (h *Handler) CreateSportYear(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.params.CreateSportYear"
	log := h.logger(r, op)

	var y models.SportYear
	if err := render.DecodeJSON(r.Body, &y); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(y); err != nil {
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	id, err := h.service.CreateSportYear(r.Context(), y)
	switch {
	case errors.Is(err, params.ErrInvalidPeriod):
		response.Send(w, r, http.StatusBadRequest, response.Error("La data di inizio deve precedere la data di fine"))
		return
	case errors.Is(err, storage.ErrDuplicate):
		response.Send(w, r, http.StatusBadRequest, response.Error("Anno sportivo già esistente"))
		return
	case err != nil:
		internal(w, r, log, "failed to create sport year", err)
		return
	}
	log.Info("sport year created", slog.Int("id", id), slog.String("name", y.AnnoName))
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(map[string]any{"id": id}, "Anno sportivo creato con successo"))
}

// Months возвращает месяцы в порядке спортивного года.
func (h *Handler) Months(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK(h.service.Months()))
}
