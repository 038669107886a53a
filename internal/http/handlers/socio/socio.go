// Package socio содержит HTTP-обработчики /socio: список, карточка,
// создание и изменение членов клуба, справочник типов и проверки.
package socio

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

const (
	msgNotFound  = "Socio non trovato"
	msgDuplicate = "Esiste già un socio con questo codice fiscale"
)

// Service бизнес-логика членов клуба.
type Service interface {
	List(ctx context.Context, f models.MemberFilter) ([]models.MemberListItem, error)
	Get(ctx context.Context, id int) (*models.Member, error)
	Create(ctx context.Context, m models.Member) (int, error)
	Update(ctx context.Context, id int, m models.Member) error
	Types(ctx context.Context) ([]models.MemberType, error)
	Contacts(ctx context.Context, nome, cognome string) ([]models.MemberContact, error)
	CheckType(ctx context.Context, taxCode string, memberType int) (models.TypeCheck, error)
}

// Handler обработчики /socio.
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

// List godoc
// @Summary Список членов клуба
// @Description Активные члены клуба с действующим абонементом, упорядочены по фамилии и имени.
// @Tags Socio
// @Produce json
// @Param nome query string false "Подстрока имени"
// @Param cognome query string false "Подстрока фамилии"
// @Param scadenza query int false "Абонемент истекает в ближайшие N месяцев"
// @Param attivita query int false "ID активности"
// @Param scadute query bool false "Только с истёкшим абонементом"
// @Param anno query int false "ID спортивного года"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /socio [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.List"
	log := h.logger(r, op)

	q := r.URL.Query()
	f := models.MemberFilter{
		Nome:        strings.TrimSpace(q.Get("nome")),
		Cognome:     strings.TrimSpace(q.Get("cognome")),
		OnlyExpired: q.Get("scadute") == "true",
	}
	var err error
	if f.ExpiringIn, err = request.QueryInt(r, "scadenza"); err != nil {
		log.Error("invalid scadenza", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error("Parametro scadenza non valido"))
		return
	}
	if f.ActivityID, err = request.QueryInt(r, "attivita"); err != nil {
		log.Error("invalid attivita", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error("Parametro attivita non valido"))
		return
	}
	if f.SportYearID, err = request.QueryInt(r, "anno"); err != nil {
		log.Error("invalid anno", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error("Parametro anno non valido"))
		return
	}

	items, err := h.service.List(r.Context(), f)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("members listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OK(map[string]any{"items": items}))
}

// Get godoc
// @Summary Карточка члена клуба
// @Tags Socio
// @Produce json
// @Param id path int true "ID члена клуба"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /socio/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.Get"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("member not found", slog.Int("id", id))
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to get member", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(m))
}

func (h *Handler) decodeMember(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Member, bool) {
	var m models.Member
	if err := render.DecodeJSON(r.Body, &m); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidBody))
		return m, false
	}
	m.Normalize()
	if err := h.validate.Struct(m); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.ValidationError(err))
		return m, false
	}
	return m, true
}

// Create godoc
// @Summary Новый член клуба
// @Tags Socio
// @Accept json
// @Produce json
// @Param request body models.Member true "Данные члена клуба"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Codice fiscale уже есть"
// @Security BearerAuth
// @Router /socio [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.Create"
	log := h.logger(r, op)

	m, ok := h.decodeMember(w, r, log)
	if !ok {
		return
	}

	id, err := h.service.Create(r.Context(), m)
	if errors.Is(err, storage.ErrDuplicate) {
		log.Info("duplicate tax code")
		response.Send(w, r, http.StatusConflict, response.Error(msgDuplicate))
		return
	}
	if err != nil {
		log.Error("failed to create member", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("member created", slog.Int("id", id))
	response.Send(w, r, http.StatusCreated, response.OKWithMessage(map[string]any{"id": id}, "Socio creato con successo"))
}

// Update godoc
// @Summary Изменение члена клуба
// @Tags Socio
// @Accept json
// @Produce json
// @Param id path int true "ID члена клуба"
// @Param request body models.Member true "Данные члена клуба"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /socio/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.Update"
	log := h.logger(r, op)

	id, err := request.ID(r, "id")
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		response.Send(w, r, http.StatusBadRequest, response.Error(response.MsgInvalidID))
		return
	}
	m, ok := h.decodeMember(w, r, log)
	if !ok {
		return
	}

	err = h.service.Update(r.Context(), id, m)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Send(w, r, http.StatusNotFound, response.Error(msgNotFound))
		return
	case errors.Is(err, storage.ErrDuplicate):
		response.Send(w, r, http.StatusConflict, response.Error(msgDuplicate))
		return
	case err != nil:
		log.Error("failed to update member", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	log.Info("member updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithMessage(map[string]any{"id": id}, "Socio aggiornato con successo"))
}

// Types возвращает справочник типов членов клуба.
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.Types"
	log := h.logger(r, op)

	types, err := h.service.Types(r.Context())
	if err != nil {
		log.Error("failed to list member types", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(types))
}

// Contacts возвращает членов клуба с e-mail для рассылки.
func (h *Handler) Contacts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.Contacts"
	log := h.logger(r, op)

	q := r.URL.Query()
	contacts, err := h.service.Contacts(r.Context(), strings.TrimSpace(q.Get("nome")), strings.TrimSpace(q.Get("cognome")))
	if err != nil {
		log.Error("failed to list contacts", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(contacts))
}

// CheckType godoc
// @Summary Проверка члена клуба по codice fiscale и типу
// @Tags Socio
// @Produce json
// @Param codiceFiscale query string true "Codice fiscale"
// @Param tipo query int true "Тип члена клуба"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /socio/control [get]
func (h *Handler) CheckType(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.socio.CheckType"
	log := h.logger(r, op)

	taxCode := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("codiceFiscale")))
	memberType, err := request.QueryInt(r, "tipo")
	if taxCode == "" || err != nil || memberType == 0 {
		log.Info("missing control parameters")
		response.Send(w, r, http.StatusBadRequest, response.Error("Parametri codiceFiscale e tipo obbligatori"))
		return
	}

	res, err := h.service.CheckType(r.Context(), taxCode, memberType)
	if err != nil {
		log.Error("failed to check member type", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, response.OK(res))
}
