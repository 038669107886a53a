package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockRole       string
		mockErr        error
		callService    bool
		wantStatusCode int
		wantData       map[string]any
		wantMessage    string
		wantSuccess    bool
	}{
		{
			name:           "успешный вход",
			requestBody:    models.LoginRequest{Username: "admin", Password: "password123"},
			mockToken:      "tok",
			mockRole:       auth.RoleAdmin,
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token":    "tok",
				"role":     auth.RoleAdmin,
				"username": "admin",
			},
			wantSuccess: true,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Corpo della richiesta non valido",
		},
		{
			name:           "нет пароля",
			requestBody:    models.LoginRequest{Username: "admin"},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Dati non validi",
		},
		{
			name:           "неверные учетные данные",
			requestBody:    models.LoginRequest{Username: "admin", Password: "wrongpass"},
			mockErr:        auth.ErrInvalidCredentials,
			callService:    true,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Credenziali non valide",
		},
		{
			name:           "ошибка базы",
			requestBody:    models.LoginRequest{Username: "admin", Password: "password123"},
			mockErr:        errors.New("db error"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "Errore interno del server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.callService {
				req := tt.requestBody.(models.LoginRequest)
				authMock.On("Login", mock.Anything, req.Username, req.Password).
					Return(tt.mockToken, tt.mockRole, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, got["success"])

			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got["message"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			} else {
				assert.Nil(t, got["data"])
			}

			if tt.callService {
				authMock.AssertExpectations(t)
			}
		})
	}
}
