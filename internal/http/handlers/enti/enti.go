// Package enti содержит HTTP-обработчики /enti: квитанции учреждений
// и их собственная prima nota.
package enti

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

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

const msgNotFound = "Ricevuta ente non trovata"

// Service бизнес-логика квитанций учреждений.
type Service interface {
	Create(ctx context.Context, r models.EntityReceipt) (int, error)
	List(ctx context.Context, r models.DateRange) (models.EntityReceiptList, error)
	Get(ctx context.Context, id int) (*models.EntityReceipt, error)
	Update(ctx context.Context, id int, r models.EntityReceipt) error
	Delete(ctx context.Context, id int) error
	Ledger(ctx context.Context, r models.DateRange) (models.Ledger, error)
}

// Handler обработчики /enti.
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.EntityReceipt, bool) {
	var er models.EntityReceipt
	if err := render.DecodeJSON(r.Body, &er); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return er, false
	}
	er.Ente = strings.TrimSpace(er.Ente)
	if err := h.validate.Struct(er); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return er, false
	}
	return er, true
}

// Create godoc
// @Summary Новая квитанция учреждения
// @Tags Enti
// @Accept json
// @Produce json
// @Param request body models.EntityReceipt true "Квитанция"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /enti [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enti.Create"
	log := h.logger(r, op)

	er, ok := h.decode(w, r, log)
	if !ok {
		return
	}
	id, err := h.service.Create(r.Context(), er)
	if err != nil {
		log.Error("failed to create entity receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(map[string]any{"id": id}, "Ricevuta ente creata con successo"))
}

// List godoc
// @Summary Квитанции учреждений за период
// @Tags Enti
// @Produce json
// @Param startDate query string false "Начало периода DD-MM-YYYY"
// @Param endDate query string false "Конец периода DD-MM-YYYY"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /enti [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enti.List"
	log := h.logger(r, op)

	dr, err := request.DateRange(r)
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidDates))
		return
	}
	list, err := h.service.List(r.Context(), dr)
	if err != nil {
		log.Error("failed to list entity receipts", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(list))
}

// Get возвращает квитанцию учреждения по ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enti.Get"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	er, err := h.service.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to get entity receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(er))
}

// Update изменяет квитанцию учреждения.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enti.Update"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	er, ok := h.decode(w, r, log)
	if !ok {
		return
	}
	err = h.service.Update(r.Context(), id, er)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to update entity receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Ricevuta ente aggiornata con successo"))
}

// Delete удаляет квитанцию учреждения.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enti.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to delete entity receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Ricevuta ente eliminata con successo"))
}

// Ledger godoc
// @Summary Prima nota квитанций учреждений
// @Tags Enti
// @Produce json
// @Param startDate query string false "Начало периода DD-MM-YYYY"
// @Param endDate query string false "Конец периода DD-MM-YYYY"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /enti/primanota [get]
func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enti.Ledger"
	log := h.logger(r, op)

	dr, err := request.DateRange(r)
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidDates))
		return
	}
	l, err := h.service.Ledger(r.Context(), dr)
	if err != nil {
		log.Error("failed to build entity ledger", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(l))
}
