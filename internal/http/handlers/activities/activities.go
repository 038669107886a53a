// Package activities содержит HTTP-обработчики /activities: активности клуба,
// федерации и секции.
package activities

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
	"github.com/magabrotheeeer/club-manager/internal/lib/validate"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

const msgNotFound = "Attività non trovata"

// Service бизнес-логика активностей и справочников.
type Service interface {
	List(ctx context.Context, federationID, sectionID int) ([]models.Activity, error)
	Codes(ctx context.Context) ([]models.ActivityCode, error)
	FederationFull(ctx context.Context, federationID int) ([]models.ActivityStats, error)
	Get(ctx context.Context, id int) (*models.Activity, error)
	Save(ctx context.Context, a models.Activity) (int, error)
	Delete(ctx context.Context, id int) error
	Federations(ctx context.Context) ([]models.Lookup, error)
	Sections(ctx context.Context) ([]models.Lookup, error)
	CreateFederation(ctx context.Context, name string) (int, error)
	CreateSection(ctx context.Context, name string) (int, error)
}

// Handler обработчики /activities.
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
// @Summary Список активностей
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /activities [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.List"
	log := h.logger(r, op)

	items, err := h.service.List(r.Context(), 0, 0)
	if err != nil {
		internal(w, r, log, "failed to list activities", err)
		return
	}
	render.JSON(w, r, response.OK(items))
}

// ByFederation возвращает активности федерации.
func (h *Handler) ByFederation(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.ByFederation"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	items, err := h.service.List(r.Context(), id, 0)
	if err != nil {
		internal(w, r, log, "failed to list activities", err)
		return
	}
	render.JSON(w, r, response.OK(items))
}

// BySection возвращает активности секции.
func (h *Handler) BySection(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.BySection"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	items, err := h.service.List(r.Context(), 0, id)
	if err != nil {
		internal(w, r, log, "failed to list activities", err)
		return
	}
	render.JSON(w, r, response.OK(items))
}

// Codes возвращает коды активностей.
func (h *Handler) Codes(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.Codes"
	log := h.logger(r, op)

	codes, err := h.service.Codes(r.Context())
	if err != nil {
		internal(w, r, log, "failed to list activity codes", err)
		return
	}
	render.JSON(w, r, response.OK(codes))
}

// FederationFull godoc
// @Summary Активности федерации со статистикой
// @Description Для каждой активности число членов клуба и квитанций.
// @Tags Activities
// @Produce json
// @Param id path int true "ID федерации"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /activities/federazione/{id}/full [get]
func (h *Handler) FederationFull(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.FederationFull"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	stats, err := h.service.FederationFull(r.Context(), id)
	if err != nil {
		internal(w, r, log, "failed to load federation stats", err)
		return
	}
	render.JSON(w, r, response.OK(stats))
}

// Get возвращает активность по ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.Get"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		internal(w, r, log, "failed to get activity", err)
		return
	}
	render.JSON(w, r, response.OK(a))
}

// Save godoc
// @Summary Создание или изменение активности
// @Description id > 0 изменяет существующую активность.
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body models.Activity true "Активность"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /activities [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.Save"
	log := h.logger(r, op)

	var req models.ActivityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	a := req.Normalize()
	if err := h.validate.Struct(a); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	id, err := h.service.Save(r.Context(), a)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	case errors.Is(err, storage.ErrDuplicate):
		response.Send(w, r, http.StatusBadRequest, response.Error("Esiste già un'attività con questo nome"))
		return
	case errors.Is(err, storage.ErrInvalidReference):
		response.Send(w, r, http.StatusBadRequest, response.Error("Federazione o sezione inesistente"))
		return
	case err != nil:
		internal(w, r, log, "failed to save activity", err)
		return
	}
	log.Info("activity saved", slog.Int("id", id))
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Attività salvata con successo"))
}

// Delete godoc
// @Summary Удаление активности
// @Tags Activities
// @Produce json
// @Param id path int true "ID активности"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Есть квитанции по активности"
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /activities/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	err = h.service.Delete(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	case errors.Is(err, storage.ErrInUse):
		response.Send(w, r, http.StatusBadRequest, response.Error("Impossibile eliminare: esistono ricevute collegate all'attività"))
		return
	case err != nil:
		internal(w, r, log, "failed to delete activity", err)
		return
	}
	log.Info("activity deleted", slog.Int("id", id))
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Attività eliminata con successo"))
}

// Federations возвращает справочник федераций.
func (h *Handler) Federations(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.Federations"
	log := h.logger(r, op)

	items, err := h.service.Federations(r.Context())
	if err != nil {
		internal(w, r, log, "failed to list federations", err)
		return
	}
	render.JSON(w, r, response.OK(items))
}

// Sections возвращает справочник секций.
func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.Sections"
	log := h.logger(r, op)

	items, err := h.service.Sections(r.Context())
	if err != nil {
		internal(w, r, log, "failed to list sections", err)
		return
	}
	render.JSON(w, r, response.OK(items))
}

// CreateFederation добавляет федерацию.
func (h *Handler) CreateFederation(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.CreateFederation"
	h.createLookup(w, r, h.logger(r, op), h.service.CreateFederation, "Federazione")
}

// CreateSection добавляет секцию.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activities.CreateSection"
	h.createLookup(w, r, h.logger(r, op), h.service.CreateSection, "Sezione")
}

func (h *Handler) createLookup(w http.ResponseWriter, r *http.Request, log *slog.Logger,
	create func(context.Context, string) (int, error), label string) {
	var l models.Lookup
	if err := render.DecodeJSON(r.Body, &l); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(l); err != nil {
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	id, err := create(r.Context(), l.Nome)
	if errors.Is(err, storage.ErrDuplicate) {
		response.Send(w, r, http.StatusBadRequest, response.Error(label+" già esistente"))
		return
	}
	if err != nil {
		internal(w, r, log, "failed to create lookup", err)
		return
	}
	log.Info("lookup created", slog.String("kind", label), slog.Int("id", id))
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(models.Lookup{ID: id, Nome: l.Nome}, label+" creata con successo"))
}
