// Package primanota содержит HTTP-обработчики /primanota: журнал движений,
// печатная форма и статистика поступлений.
package primanota

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-manager/internal/http/request"
	"github.com/magabrotheeeer/club-manager/internal/http/response"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/primanota"
)

const (
	msgInvalidType      = "Tipo di prima nota non valido: usare 0, 1 o 2"
	msgInvalidStatistic = "Tipo di statistica non valido: usare 0, 1 o 2"
)

// Service бизнес-логика prima nota.
type Service interface {
	Ledger(ctx context.Context, kind int, r models.DateRange) (models.Ledger, error)
	Print(ctx context.Context, kind int, r models.DateRange) (models.LedgerPrint, error)
	Statistic(ctx context.Context, kind int) (any, error)
}

// Handler обработчики /primanota.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// params разбирает тип журнала и период. При ошибке ответ уже отправлен.
func params(w http.ResponseWriter, r *http.Request) (int, models.DateRange, bool) {
	kind, err := request.Int(r, "type")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(msgInvalidType))
		return 0, models.DateRange{}, false
	}
	dr, err := request.DateRange(r)
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidDates))
		return 0, models.DateRange{}, false
	}
	return kind, dr, true
}

// Ledger godoc
// @Summary Prima nota
// @Description Движения за период с нарастающим сальдо: 0 все, 1 поступления, 2 расходы.
// @Tags PrimaNota
// @Produce json
// @Param type path int true "Тип: 0, 1, 2"
// @Param startDate query string false "Начало периода DD-MM-YYYY"
// @Param endDate query string false "Конец периода DD-MM-YYYY"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /primanota/{type} [get]
func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.primanota.Ledger"
	log := h.logger(r, op)

	kind, dr, ok := params(w, r)
	if !ok {
		return
	}
	l, err := h.service.Ledger(r.Context(), kind, dr)
	if errors.Is(err, primanota.ErrInvalidType) {
		response.Send(w, r, http.StatusBadRequest, response.Error(msgInvalidType))
		return
	}
	if err != nil {
		log.Error("failed to build ledger", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("ledger built", slog.Int("type", kind), slog.Int("movements", len(l.Movimenti)))
	render.JSON(w, r, response.OK(l))
}

// Print godoc
// @Summary Prima nota для печати
// @Tags PrimaNota
// @Produce json
// @Param type path int true "Тип: 0, 1, 2"
// @Param startDate query string false "Начало периода DD-MM-YYYY"
// @Param endDate query string false "Конец периода DD-MM-YYYY"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /primanota/{type}/print [get]
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.primanota.Print"
	log := h.logger(r, op)

	kind, dr, ok := params(w, r)
	if !ok {
		return
	}
	p, err := h.service.Print(r.Context(), kind, dr)
	if errors.Is(err, primanota.ErrInvalidType) {
		response.Send(w, r, http.StatusBadRequest, response.Error(msgInvalidType))
		return
	}
	if err != nil {
		log.Error("failed to build ledger print", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(p))
}

// Statistic godoc
// @Summary Статистика поступлений
// @Description 0 помесячно за спортивный год, 1 по активностям, 2 тренд за 12 месяцев.
// @Tags PrimaNota
// @Produce json
// @Param type path int true "Тип: 0, 1, 2"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /primanota/statistic/{type} [get]
func (h *Handler) Statistic(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.primanota.Statistic"
	log := h.logger(r, op)

	kind, err := request.Int(r, "type")
	if err != nil {
		response.Send(w, r, http.StatusBadRequest, response.Error(msgInvalidStatistic))
		return
	}
	stats, err := h.service.Statistic(r.Context(), kind)
	if errors.Is(err, primanota.ErrInvalidStatistic) {
		response.Send(w, r, http.StatusBadRequest, response.Error(msgInvalidStatistic))
		return
	}
	if err != nil {
		log.Error("failed to build statistic", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(stats))
}
