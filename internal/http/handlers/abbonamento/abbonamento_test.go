package abbonamento

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

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-manager/internal/models"
	"github.com/magabrotheeeer/club-manager/internal/services/membership"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Save(ctx context.Context, req models.MembershipRequest) (*models.Membership, bool, error) {
	args := m.Called(ctx, req)
	ms, _ := args.Get(0).(*models.Membership)
	return ms, args.Bool(1), args.Error(2)
}

func (m *MockService) Current(ctx context.Context, memberID int) (*models.Membership, error) {
	args := m.Called(ctx, memberID)
	ms, _ := args.Get(0).(*models.Membership)
	return ms, args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id int) (*models.Membership, error) {
	args := m.Called(ctx, id)
	ms, _ := args.Get(0).(*models.Membership)
	return ms, args.Error(1)
}

func (m *MockService) ListByMember(ctx context.Context, memberID int) ([]models.Membership, error) {
	args := m.Called(ctx, memberID)
	ms, _ := args.Get(0).([]models.Membership)
	return ms, args.Error(1)
}

func (m *MockService) FindCard(ctx context.Context, number string) (*models.CardLookup, error) {
	args := m.Called(ctx, number)
	c, _ := args.Get(0).(*models.CardLookup)
	return c, args.Error(1)
}

func (m *MockService) UpdateCard(ctx context.Context, id int, req models.CardUpdate) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *MockService) CheckCards(ctx context.Context, checkType int) (models.CardCheck, error) {
	args := m.Called(ctx, checkType)
	return args.Get(0).(models.CardCheck), args.Error(1)
}

func (m *MockService) LoadMissingCards(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newRequest(method, target string, body []byte, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestHandler_Save(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	card := "2024/0001"

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "новый абонемент",
			body: `{"id":0,"socioId":3,"dataIscrizione":"10-09-2024","idAnno":0}`,
			setupMock: func(m *MockService) {
				m.On("Save", mock.Anything, mock.MatchedBy(func(r models.MembershipRequest) bool {
					return r.SocioID == 3 && r.ID == 0
				})).Return(&models.Membership{ID: 8, NumeroTessera: &card}, true, nil)
			},
			wantStatus: http.StatusCreated,
			wantMsg:    "Abbonamento creato con successo",
		},
		{
			name: "старые имена полей",
			body: `{"idAbbonamento":8,"idSocio":3,"dateInscription":"2024-09-12","firmato":true}`,
			setupMock: func(m *MockService) {
				m.On("Save", mock.Anything, mock.MatchedBy(func(r models.MembershipRequest) bool {
					return r.ID == 8 && r.SocioID == 3 && r.Firmato
				})).Return(&models.Membership{ID: 8}, false, nil)
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Abbonamento aggiornato con successo",
		},
		{
			name: "неверный спортивный год",
			body: `{"socioId":3,"dataIscrizione":"10-09-2024","idAnno":99}`,
			setupMock: func(m *MockService) {
				m.On("Save", mock.Anything, mock.Anything).
					Return(nil, false, fmt.Errorf("wrap: %w", membership.ErrInvalidSportYear))
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Anno sportivo non valido",
		},
		{
			name: "абонемент не найден",
			body: `{"id":77,"socioId":3,"dataIscrizione":"10-09-2024"}`,
			setupMock: func(m *MockService) {
				m.On("Save", mock.Anything, mock.Anything).Return(nil, false, storage.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Abbonamento non trovato",
		},
		{
			name:       "нет члена клуба",
			body:       `{"dataIscrizione":"10-09-2024"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Dati non validi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(logger, svc)

			rec := httptest.NewRecorder()
			h.Save(rec, newRequest(http.MethodPost, "/abbonamento", []byte(tt.body), nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMsg, got["message"])
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateCard(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
	}{
		{name: "номер изменён", id: "4", body: `{"tessera":"2024/0009"}`, wantStatus: http.StatusOK},
		{name: "номер занят", id: "4", body: `{"tessera":"2024/0001"}`, err: membership.ErrCardDuplicate, wantStatus: http.StatusBadRequest},
		{name: "абонемент не найден", id: "4", body: `{"empty":true}`, err: storage.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "некорректный id", id: "x", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.id == "4" {
				svc.On("UpdateCard", mock.Anything, 4, mock.Anything).Return(tt.err)
			}
			h := New(logger, svc)

			rec := httptest.NewRecorder()
			h.UpdateCard(rec, newRequest(http.MethodPut, "/abbonamento/"+tt.id+"/tessera", []byte(tt.body), map[string]string{"id": tt.id}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_CheckCards(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := new(MockService)
	svc.On("CheckCards", mock.Anything, 0).Return(models.CardCheck{Type: 0, Description: "Tessere duplicate"}, nil)
	svc.On("CheckCards", mock.Anything, 5).Return(models.CardCheck{}, membership.ErrInvalidCheck)
	h := New(logger, svc)

	rec := httptest.NewRecorder()
	h.CheckCards(rec, newRequest(http.MethodGet, "/abbonamento/tessera/check/0", nil, map[string]string{"type": "0"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.CheckCards(rec, newRequest(http.MethodGet, "/abbonamento/tessera/check/5", nil, map[string]string{"type": "5"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_FindCard(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := new(MockService)
	svc.On("FindCard", mock.Anything, "2024/0100").Return(nil, storage.ErrNotFound)
	h := New(logger, svc)

	rec := httptest.NewRecorder()
	h.FindCard(rec, newRequest(http.MethodGet, "/abbonamento/tessera?numero=2024/0100", nil, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.FindCard(rec, newRequest(http.MethodGet, "/abbonamento/tessera", nil, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}
