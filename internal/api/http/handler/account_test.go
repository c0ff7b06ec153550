package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave-server/internal/analyzer"
	"github.com/mindweave/mindweave-server/internal/api/http/handler/mocks"
	rootmocks "github.com/mindweave/mindweave-server/internal/mocks"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/service"
	"github.com/mindweave/mindweave-server/internal/session"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

func TestSubscription_Status(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     service.SubscriptionStatus
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "free plan",
			status:     service.SubscriptionStatus{Subscription: model.Subscription{UserID: userID}},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"free","active":false,"pending":false,"cancel_at_period_end":false}`,
		},
		{
			name: "active premium",
			status: service.SubscriptionStatus{
				Subscription: model.Subscription{
					UserID: userID, Status: model.SubscriptionActive, PriceID: service.PremiumProduct.PriceID,
					CurrentPeriodEnd: &end, PaymentMethodBrand: "visa", PaymentMethodLast4: "4242",
				},
				Active:      true,
				ProductName: service.PremiumProduct.Name,
			},
			wantStatus: http.StatusOK,
			wantBody: `{"status":"active","active":true,"pending":false,"product_name":"Mindweave Premium",
				"price_id":"` + service.PremiumProduct.PriceID + `","current_period_end":"2024-04-01T00:00:00Z",
				"cancel_at_period_end":false,"payment_method_brand":"visa","payment_method_last4":"4242"}`,
		},
		{
			name:       "store failure",
			err:        errors.New("failed to get subscription: timeout"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewSubscriptionService(t)
			svc.On("Status", mock.Anything, userID).Return(tt.status, tt.err).Once()
			h := NewSubscription(svc, contextManager, testutil.MakeNoopLogger())

			rec := serve(t, http.MethodGet, "/subscription", "/subscription", "", userID, h.Status)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestExport_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("premium", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewExportService(t)
		svc.On("Create", mock.Anything, userID).Return("20240314T093000Z.json", nil).Once()
		h := NewExport(svc, contextManager, testutil.MakeNoopLogger())

		rec := serve(t, http.MethodPost, "/exports", "/exports", "", userID, h.Create)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/exports/20240314T093000Z.json", rec.Header().Get("Location"))
		assert.JSONEq(t, `{"name":"20240314T093000Z.json"}`, rec.Body.String())
	})

	t.Run("free", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewExportService(t)
		svc.On("Create", mock.Anything, userID).Return("", model.ErrPremiumRequired).Once()
		h := NewExport(svc, contextManager, testutil.MakeNoopLogger())

		rec := serve(t, http.MethodPost, "/exports", "/exports", "", userID, h.Create)
		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	})
}

func TestExport_ListDownloadDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := mocks.NewExportService(t)
	h := NewExport(svc, contextManager, testutil.MakeNoopLogger())

	svc.On("List", mock.Anything, userID).Return([]string{"b.json", "a.json"}, nil).Once()
	svc.On("Open", mock.Anything, userID, "b.json").
		Return(io.NopCloser(strings.NewReader(`{"entries":[]}`)), nil).Once()
	svc.On("Open", mock.Anything, userID, "gone.json").Return(nil, model.ErrNotFound).Once()
	svc.On("Delete", mock.Anything, userID, "a.json").Return(nil).Once()

	rec := serve(t, http.MethodGet, "/exports", "/exports", "", userID, h.List)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"b.json"},{"name":"a.json"}]`, rec.Body.String())

	rec = serve(t, http.MethodGet, "/exports/{name}", "/exports/b.json", "", userID, h.Download)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"entries":[]}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "b.json")

	rec = serve(t, http.MethodGet, "/exports/{name}", "/exports/gone.json", "", userID, h.Download)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, http.MethodDelete, "/exports/{name}", "/exports/a.json", "", userID, h.Delete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		reflection string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "generated", body: `{"entry_text":" long day "}`, reflection: "Rest well.", wantStatus: http.StatusOK, wantBody: `{"reflection":"Rest well."}`},
		{name: "blank text", body: `{"entry_text":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "empty generation", body: `{"entry_text":"long day"}`, err: analyzer.ErrEmptyGeneration, wantStatus: http.StatusBadGateway},
		{name: "upstream error", body: `{"entry_text":"long day"}`, err: errors.New("quota exceeded"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := rootmocks.NewAnalyzer(t)
			if tt.wantStatus != http.StatusBadRequest {
				a.On("Analyze", mock.Anything, "long day").Return(tt.reflection, tt.err).Once()
			}
			h := NewAnalyze(a, testutil.MakeNoopLogger())

			rec := serve(t, http.MethodPost, "/analyze", "/analyze", tt.body, uuid.Nil, h.Analyze)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

type streamCounter struct {
	opened, closed chan struct{}
}

func (s *streamCounter) SessionStreamOpened() { s.opened <- struct{}{} }
func (s *streamCounter) SessionStreamClosed() { s.closed <- struct{}{} }

func TestSession_EventsStream(t *testing.T) {
	t.Parallel()

	hub := session.NewHub(testutil.MakeNoopLogger(), 4)
	counter := &streamCounter{opened: make(chan struct{}, 1), closed: make(chan struct{}, 1)}
	h := NewSession(hub, counter, contextManager, nil, testutil.MakeNoopLogger())
	userID := uuid.New()

	r := chi.NewRouter()
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(contextManager.SetUserIDToContext(req.Context(), userID)))
		})
	}).Get("/session/events", h.Events)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/session/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-counter.opened:
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not opened")
	}

	hub.Publish(model.SessionEvent{Type: model.SessionProfileUpdated, UserID: uuid.New()})
	hub.Publish(model.SessionEvent{Type: model.SessionProfileUpdated, UserID: userID})
	hub.Publish(model.SessionEvent{Type: model.SessionSignedOut, UserID: userID})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev model.SessionEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, model.SessionProfileUpdated, ev.Type)
	assert.Equal(t, userID, ev.UserID)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, model.SessionSignedOut, ev.Type)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	select {
	case <-counter.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not closed")
	}
}

func TestSession_RequiresUser(t *testing.T) {
	t.Parallel()

	h := NewSession(session.NewHub(testutil.MakeNoopLogger(), 1), nil, contextManager, []string{"https://app.example.com"}, testutil.MakeNoopLogger())
	rec := serve(t, http.MethodGet, "/session/events", "/session/events", "", uuid.Nil, h.Events)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
