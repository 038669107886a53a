// Package middlewarectx содержит middleware API: проверку JWT оператора,
// ограничение частоты запросов, CORS и метрики Prometheus.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/club-manager/internal/http/response"
	"github.com/magabrotheeeer/club-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
)

// Key тип ключей контекста запроса.
type Key string

const (
	// User имя оператора.
	User Key = "username"
	// Role роль оператора.
	Role Key = "role"
	// UserUID UID оператора.
	UserUID Key = "uid"
)

// TokenParser разбирает токен оператора.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.Claims, error)
}

// JWTMiddleware пропускает запрос только с действительным токеном Bearer
// и кладёт данные оператора в контекст.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				response.Send(w, r, http.StatusUnauthorized, response.Error(response.MsgUnauthorized))
				return
			}

			claims, err := parser.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				response.Send(w, r, http.StatusUnauthorized, response.Error("Token non valido o scaduto"))
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserUID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
