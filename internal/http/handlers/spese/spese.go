// Package spese содержит HTTP-обработчики /spese.
package spese

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

type Service interface {
	Create(ctx context.Context, e models.Expense) (int, error)
	List(ctx context.Context, r models.DateRange) ([]models.Expense, error)
	Delete(ctx context.Context, id int) error
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

// Create godoc
// @Summary Новый расход
// @Tags Spese
// @Accept json
// @Produce json
// @Param request body models.Expense true "Расход"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /spese [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.spese.Create"
	log := h.logger(r, op)

	var e models.Expense
	if err := render.DecodeJSON(r.Body, &e); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(e); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	id, err := h.service.Create(r.Context(), e)
	if err != nil {
		log.Error("failed to create expense", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("expense created", slog.Int("id", id))
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(map[string]any{"id": id}, "Spesa registrata con successo"))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.spese.List"
	log := h.logger(r, op)

	dr, err := request.DateRange(r)
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidDates))
		return
	}
	items, err := h.service.List(r.Context(), dr)
	if err != nil {
		log.Error("failed to list expenses", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(items))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.spese.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error("Spesa non trovata"))
		return
	}
	if err != nil {
		log.Error("failed to delete expense", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Spesa eliminata con successo"))
}
