package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apicontext "github.com/mindweave/mindweave-server/internal/api/http/context"
	"github.com/mindweave/mindweave-server/internal/api/http/handler"
	"github.com/mindweave/mindweave-server/internal/api/http/handler/mocks"
	"github.com/mindweave/mindweave-server/internal/api/http/middleware"
	"github.com/mindweave/mindweave-server/internal/metrics"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/session"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

type tokenStub struct{ userID uuid.UUID }

func (s tokenStub) Authenticate(_ context.Context, token string) (uuid.UUID, error) {
	if token != "valid" {
		return uuid.Nil, errors.New("token is invalid")
	}
	return s.userID, nil
}

type pingOK struct{}

func (pingOK) Ping(context.Context) error { return nil }

type fixture struct {
	journal *mocks.JournalService
	auth    *mocks.AuthService
	handler http.Handler
	userID  uuid.UUID
}

func newFixture(t *testing.T, limiter *middleware.RateLimiter) *fixture {
	log := testutil.MakeNoopLogger()
	cm := apicontext.NewManager()
	m := metrics.New()
	f := &fixture{
		journal: mocks.NewJournalService(t),
		auth:    mocks.NewAuthService(t),
		userID:  uuid.New(),
	}

	handlers := Handlers{
		Auth:         handler.NewAuth(f.auth, cm, log),
		Journal:      handler.NewJournal(f.journal, cm, handler.NewLocator(time.UTC), log),
		Subscription: handler.NewSubscription(mocks.NewSubscriptionService(t), cm, log),
		Export:       handler.NewExport(mocks.NewExportService(t), cm, log),
		Session:      handler.NewSession(session.NewHub(log, 1), m, cm, nil, log),
		Health:       handler.NewHealth(pingOK{}, "test"),
		Metrics:      m.Handler(),
	}
	f.handler = New(handlers, tokenStub{userID: f.userID}, cm, limiter, m, time.Second, log).Register()
	return f
}

func (f *fixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.journal.On("Entries", mock.Anything, f.userID).Return([]model.Entry{}, nil)

	tests := []struct {
		name       string
		method     string
		target     string
		token      string
		wantStatus int
	}{
		{name: "health is public", method: http.MethodGet, target: "/api/health", wantStatus: http.StatusOK},
		{name: "entries need a token", method: http.MethodGet, target: "/api/entries", wantStatus: http.StatusUnauthorized},
		{name: "entries with token", method: http.MethodGet, target: "/api/entries", token: "valid", wantStatus: http.StatusOK},
		{name: "trailing slash stripped", method: http.MethodGet, target: "/api/entries/", token: "valid", wantStatus: http.StatusOK},
		{name: "bad token", method: http.MethodGet, target: "/api/entries", token: "forged", wantStatus: http.StatusUnauthorized},
		{name: "analyze disabled", method: http.MethodPost, target: "/api/analyze", token: "valid", wantStatus: http.StatusNotFound},
		{name: "metrics exposed", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, target: "/api/nope", token: "valid", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := f.do(tt.method, tt.target, tt.token, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_RateLimitsAuthRoutes(t *testing.T) {
	t.Parallel()

	log := testutil.MakeNoopLogger()
	limiter := middleware.NewRateLimiter(0.001, 1, apicontext.NewManager(), log)
	f := newFixture(t, limiter)

	first := f.do(http.MethodPost, "/api/auth/signin", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := f.do(http.MethodPost, "/api/auth/signin", "", `{"email":`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.journal.On("Entries", mock.Anything, f.userID).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	rec := f.do(http.MethodGet, "/api/entries", "valid", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
