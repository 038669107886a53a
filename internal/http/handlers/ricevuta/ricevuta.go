// Package ricevuta содержит HTTP-обработчики /ricevuta: квитанции об оплате,
// печатная форма, карточка члена клуба и выборка за период с итогами.
package ricevuta

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

const msgNotFound = "Ricevuta non trovata"

// Service бизнес-логика квитанций.
type Service interface {
	Create(ctx context.Context, r models.Receipt) (models.CreatedReceipt, error)
	Update(ctx context.Context, id int, r models.Receipt) error
	Delete(ctx context.Context, id int) error
	Build(ctx context.Context, memberID, receiptID int) (*models.ReceiptPrint, error)
	ByMember(ctx context.Context, memberID int) ([]models.ReceiptListItem, error)
	Scheda(ctx context.Context, memberID int) (*models.MemberCard, error)
	Range(ctx context.Context, f models.ReceiptFilter) (models.ReceiptRange, error)
}

// Handler обработчики /ricevuta.
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

func (h *Handler) decodeReceipt(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Receipt, bool) {
	var rc models.Receipt
	if err := render.DecodeJSON(r.Body, &rc); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return rc, false
	}
	if err := h.validate.Struct(rc); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return rc, false
	}
	return rc, true
}

// Create godoc
// @Summary Новая квитанция
// @Tags Ricevuta
// @Accept json
// @Produce json
// @Param request body models.Receipt true "Квитанция"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /ricevuta [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.Create"
	log := h.logger(r, op)

	rc, ok := h.decodeReceipt(w, r, log)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), rc)
	if errors.Is(err, storage.ErrInvalidReference) {
		response.Send(w, r, http.StatusBadRequest, response.Error("Socio o attività inesistente"))
		return
	}
	if err != nil {
		log.Error("failed to create receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("receipt created", slog.Int("id", created.ID))
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(created, "Ricevuta creata con successo"))
}

// Update godoc
// @Summary Изменение квитанции
// @Tags Ricevuta
// @Accept json
// @Produce json
// @Param id path int true "ID квитанции"
// @Param request body models.Receipt true "Квитанция"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /ricevuta/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.Update"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	rc, ok := h.decodeReceipt(w, r, log)
	if !ok {
		return
	}

	err = h.service.Update(r.Context(), id, rc)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	case errors.Is(err, storage.ErrInvalidReference):
		response.Send(w, r, http.StatusBadRequest, response.Error("Socio o attività inesistente"))
		return
	case err != nil:
		log.Error("failed to update receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Ricevuta aggiornata con successo"))
}

// Delete godoc
// @Summary Аннулирование квитанции
// @Tags Ricevuta
// @Produce json
// @Param id path int true "ID квитанции"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /ricevuta/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.Delete"
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
		log.Error("failed to delete receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Ricevuta annullata con successo"))
}

// Build godoc
// @Summary Данные для печати квитанции
// @Description Квитанция с прогрессивным номером спортивного года, nFattura и суммами в евро.
// @Tags Ricevuta
// @Produce json
// @Param socioId path int true "ID члена клуба"
// @Param ricevutaId path int true "ID квитанции"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /ricevuta/build/{socioId}/{ricevutaId} [get]
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.Build"
	log := h.logger(r, op)

	memberID, err := request.ID(r, "socioId")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	receiptID, err := request.ID(r, "ricevutaId")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}

	p, err := h.service.Build(r.Context(), memberID, receiptID)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to build receipt", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(p))
}

// ByMember возвращает квитанции члена клуба, новые первыми.
func (h *Handler) ByMember(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.ByMember"
	log := h.logger(r, op)

	memberID, err := request.ID(r, "socioId")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	items, err := h.service.ByMember(r.Context(), memberID)
	if err != nil {
		log.Error("failed to list receipts", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(items))
}

// Scheda возвращает карточку члена клуба с итогами по квитанциям.
func (h *Handler) Scheda(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.Scheda"
	log := h.logger(r, op)

	memberID, err := request.ID(r, "socioId")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	card, err := h.service.Scheda(r.Context(), memberID)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error("Socio non trovato"))
		return
	}
	if err != nil {
		log.Error("failed to build member card", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(card))
}

// Range godoc
// @Summary Квитанции за период
// @Description Квитанции с прогрессивным номером, итогами по типам оплаты и общим итогом.
// @Tags Ricevuta
// @Produce json
// @Param startDate query string true "Начало периода DD-MM-YYYY"
// @Param endDate query string true "Конец периода DD-MM-YYYY"
// @Param type query int false "Тип оплаты: 1 POS, 2 Contanti, 3 Bonifico"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /ricevuta/range [get]
func (h *Handler) Range(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ricevuta.Range"
	log := h.logger(r, op)

	from, to, err := request.RequiredDateRange(r)
	if err != nil {
		log.Info("invalid period", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidDates))
		return
	}
	paymentType, err := request.QueryInt(r, "type")
	if err != nil || paymentType < 0 || paymentType > models.PaymentTransfer {
		response.Send(w, r, http.StatusBadRequest, response.Error("Tipo di pagamento non valido"))
		return
	}

	res, err := h.service.Range(r.Context(), models.ReceiptFilter{From: from, To: to, PaymentType: paymentType})
	if err != nil {
		log.Error("failed to list receipts range", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("receipts range listed", slog.Int("count", len(res.Items)))
	render.JSON(w, r, response.OK(res))
}
