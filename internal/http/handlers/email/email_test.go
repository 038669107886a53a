package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/mail"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Send(ctx context.Context, req models.EmailRequest) (models.EmailResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.EmailResult), args.Error(1)
}

func TestHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "ricevuta отправлена",
			body: `{"recipientEmail":"mario@example.it","recipientName":"Mario","subject":"Ricevuta","ricevutaNumber":"2024-3"}`,
			setupMock: func(m *MockService) {
				m.On("Send", mock.Anything, mock.MatchedBy(func(r models.EmailRequest) bool {
					return r.NumeroRicevuta == "2024-3" && r.TemplateName() == models.EmailTemplateReceipt
				})).Return(models.EmailResult{MessageID: "<1@club>", Message: "Ricevuta inviata con successo"}, nil)
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Ricevuta inviata con successo",
		},
		{
			name:       "неверный адрес",
			body:       `{"recipientEmail":"mario@example","recipientName":"Mario","subject":"Ricevuta"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Dati non validi",
		},
		{
			name: "произвольное письмо без html",
			body: `{"recipientEmail":"mario@example.it","recipientName":"Mario","subject":"Avviso","customMessage":true}`,
			setupMock: func(m *MockService) {
				m.On("Send", mock.Anything, mock.Anything).Return(models.EmailResult{}, mail.ErrHTMLRequired)
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "htmlContent obbligatorio per i messaggi personalizzati",
		},
		{
			name: "smtp недоступен",
			body: `{"recipientEmail":"mario@example.it","recipientName":"Mario","subject":"Scheda","isScheda":true}`,
			setupMock: func(m *MockService) {
				m.On("Send", mock.Anything, mock.Anything).
					Return(models.EmailResult{}, fmt.Errorf("%w: dial tcp: refused", mail.ErrSendFailed))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Errore durante l'invio dell'email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(logger, svc)

			req := httptest.NewRequest(http.MethodPost, "/send-email", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMsg, got["message"])
			svc.AssertExpectations(t)
		})
	}
}
