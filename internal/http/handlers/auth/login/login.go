// Package login реализует HTTP-обработчик входа оператора.
//
// Обработчик декодирует и валидирует учётные данные, делегирует проверку
// сервису аутентификации и при успехе возвращает JWT вместе с ролью оператора.
package login

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
	"github.com/magabrotheeeer/club-manager/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (token, role string, err error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом аутентификации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация оператора
// @Description Аутентифицирует оператора по имени и паролю. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учетные данные оператора"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
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
	log.Info("all fields are validated")

	token, role, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("invalid credentials", slog.String("username", req.Username))
		response.Send(w, r, http.StatusUnauthorized, response.Error("Credenziali non valide"))
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.Send(w, r, http.StatusInternalServerError, response.Error(response.MsgInternal))
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.OK(map[string]any{
		"token":    token,
		"role":     role,
		"username": req.Username,
	}))
}
