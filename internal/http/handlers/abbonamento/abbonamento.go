// Package abbonamento содержит HTTP-обработчики /abbonamento: абонементы
// членов клуба и служебные операции с номерами карточек.
package abbonamento

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
	"github.com/magabrotheeeer/club-manager/internal/services/membership"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

const (
	msgNotFound     = "Abbonamento non trovato"
	msgCardNotFound = "Nessun abbonamento con questa tessera"
)

// Service бизнес-логика абонементов.
type Service interface {
	Save(ctx context.Context, req models.MembershipRequest) (*models.Membership, bool, error)
	Current(ctx context.Context, memberID int) (*models.Membership, error)
	Get(ctx context.Context, id int) (*models.Membership, error)
	ListByMember(ctx context.Context, memberID int) ([]models.Membership, error)
	FindCard(ctx context.Context, number string) (*models.CardLookup, error)
	UpdateCard(ctx context.Context, id int, req models.CardUpdate) error
	CheckCards(ctx context.Context, checkType int) (models.CardCheck, error)
	LoadMissingCards(ctx context.Context) (int, error)
}

// Handler обработчики /abbonamento.
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

// failure переводит ошибку сервиса в ответ.
func failure(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
	case errors.Is(err, membership.ErrInvalidSportYear):
		response.Send(w, r, http.StatusBadRequest, response.Error("Anno sportivo non valido"))
	case errors.Is(err, membership.ErrNoActivity):
		response.Send(w, r, http.StatusBadRequest, response.Error("Nessuna attività disponibile"))
	case errors.Is(err, membership.ErrCardRequired):
		response.Send(w, r, http.StatusBadRequest, response.Error("Numero tessera obbligatorio"))
	case errors.Is(err, membership.ErrCardDuplicate):
		response.Send(w, r, http.StatusBadRequest, response.Error("Numero tessera già assegnato"))
	case errors.Is(err, membership.ErrInvalidCheck):
		response.Send(w, r, http.StatusBadRequest, response.Error("Tipo di controllo non valido"))
	case errors.Is(err, storage.ErrInvalidReference):
		response.Send(w, r, http.StatusBadRequest, response.Error("Socio o attività inesistente"))
	default:
		log.Error("membership operation failed", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
	}
}

// Save godoc
// @Summary Создание или изменение абонемента
// @Description id == 0 создаёт абонемент с номером карточки YYYY/NNNN, id > 0 меняет дату записи и подпись.
// @Tags Abbonamento
// @Accept json
// @Produce json
// @Param request body models.MembershipRequest true "Абонемент"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /abbonamento [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.Save"
	log := h.logger(r, op)

	var req models.MembershipRequest
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

	m, created, err := h.service.Save(r.Context(), req)
	if err != nil {
		failure(w, r, log, err)
		return
	}
	if created {
		log.Info("membership created", slog.Int("id", m.ID))
		response.Send(w, r, http.StatusCreated, response.OKWithMessage(m, "Abbonamento creato con successo"))
		return
	}
	log.Info("membership updated", slog.Int("id", m.ID))
	render.JSON(w, r, response.OKWithMessage(m, "Abbonamento aggiornato con successo"))
}

// Current возвращает последний действующий абонемент члена клуба.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.Current"
	log := h.logger(r, op)

	memberID, err := request.ID(r, "socioId")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	m, err := h.service.Current(r.Context(), memberID)
	if err != nil {
		failure(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(m))
}

// Get возвращает абонемент по ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.Get"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		failure(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(m))
}

// ListByMember возвращает все абонементы члена клуба.
func (h *Handler) ListByMember(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.ListByMember"
	log := h.logger(r, op)

	memberID, err := request.ID(r, "socioId")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	items, err := h.service.ListByMember(r.Context(), memberID)
	if err != nil {
		failure(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(items))
}

// FindCard godoc
// @Summary Поиск абонемента по номеру карточки
// @Tags Abbonamento
// @Produce json
// @Param numero query string true "Номер карточки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /abbonamento/tessera [get]
func (h *Handler) FindCard(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.FindCard"
	log := h.logger(r, op)

	number := strings.TrimSpace(r.URL.Query().Get("numero"))
	if number == "" {
		response.Send(w, r, http.StatusBadRequest, response.Error("Numero tessera obbligatorio"))
		return
	}
	card, err := h.service.FindCard(r.Context(), number)
	if errors.Is(err, storage.ErrNotFound) {
		response.Send(w, r, http.StatusNotFound, response.Error(msgCardNotFound))
		return
	}
	if err != nil {
		failure(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(card))
}

// UpdateCard godoc
// @Summary Изменение номера карточки
// @Tags Abbonamento
// @Accept json
// @Produce json
// @Param id path int true "ID абонемента"
// @Param request body models.CardUpdate true "Номер карточки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /abbonamento/{id}/tessera [put]
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.UpdateCard"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	var req models.CardUpdate
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return
	}

	if err := h.service.UpdateCard(r.Context(), id, req); err != nil {
		failure(w, r, log, err)
		return
	}
	log.Info("card updated", slog.Int("id", id), slog.Bool("empty", req.Empty))
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Tessera aggiornata"))
}

// CheckCards проверяет номера карточек указанным типом проверки.
func (h *Handler) CheckCards(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.CheckCards"
	log := h.logger(r, op)

	checkType, err := request.Int(r, "type")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error("Tipo di controllo non valido"))
		return
	}
	res, err := h.service.CheckCards(r.Context(), checkType)
	if err != nil {
		failure(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(res))
}

// LoadMissingCards присваивает номера абонементам без карточки.
func (h *Handler) LoadMissingCards(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.abbonamento.LoadMissingCards"
	log := h.logger(r, op)

	n, err := h.service.LoadMissingCards(r.Context())
	if err != nil {
		failure(w, r, log, err)
		return
	}
	log.Info("missing cards loaded", slog.Int("count", n))
	render.JSON(w, r, response.OKWithMessage(map[string]any{"assigned": n}, "Tessere assegnate"))
}
