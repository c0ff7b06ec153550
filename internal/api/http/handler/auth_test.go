package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mindweave/mindweave-server/internal/api/http/handler/mocks"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/service"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

func newSession(userID uuid.UUID) service.Session {
	return service.Session{
		User:   model.User{ID: userID, Email: "ada@example.com"},
		Tokens: model.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
	}
}

func TestAuth_SignUp(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.AuthService)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"email":"ada@example.com","password":"correct horse","display_name":"Ada"}`,
			setup: func(svc *mocks.AuthService) {
				svc.On("SignUp", mock.Anything, "ada@example.com", "correct horse", "Ada").
					Return(newSession(userID), nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "email taken",
			body: `{"email":"ada@example.com","password":"correct horse"}`,
			setup: func(svc *mocks.AuthService) {
				svc.On("SignUp", mock.Anything, "ada@example.com", "correct horse", "").
					Return(service.Session{}, model.ErrEmailTaken).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "weak password",
			body: `{"email":"ada@example.com","password":"short"}`,
			setup: func(svc *mocks.AuthService) {
				svc.On("SignUp", mock.Anything, "ada@example.com", "short", "").
					Return(service.Session{}, service.ErrWeakPassword).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setup:      func(*mocks.AuthService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			tt.setup(svc)
			h := NewAuth(svc, contextManager, testutil.MakeNoopLogger())

			rec := serve(t, http.MethodPost, "/auth/signup", "/auth/signup", tt.body, uuid.Nil, h.SignUp)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.JSONEq(t, `{
					"user":{"id":"`+userID.String()+`","email":"ada@example.com","display_name":"ada","created_at":"0001-01-01T00:00:00Z"},
					"access_token":"access","refresh_token":"refresh","token_type":"Bearer"
				}`, rec.Body.String())
			}
		})
	}
}

func TestAuth_SignIn(t *testing.T) {
	t.Parallel()

	svc := mocks.NewAuthService(t)
	svc.On("SignIn", mock.Anything, "ada@example.com", "wrong").Return(service.Session{}, model.ErrInvalidCredentials).Once()
	svc.On("SignIn", mock.Anything, "ada@example.com", "right").Return(newSession(uuid.New()), nil).Once()
	h := NewAuth(svc, contextManager, testutil.MakeNoopLogger())

	rec := serve(t, http.MethodPost, "/auth/signin", "/auth/signin", `{"email":"ada@example.com","password":"wrong"}`, uuid.Nil, h.SignIn)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, http.MethodPost, "/auth/signin", "/auth/signin", `{"email":"ada@example.com","password":"right"}`, uuid.Nil, h.SignIn)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"access"`)
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "rotated", body: `{"refresh_token":"r1"}`, wantStatus: http.StatusOK},
		{name: "missing token", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "unknown jti", body: `{"refresh_token":"r1"}`, err: model.ErrNotFound, wantStatus: http.StatusUnauthorized},
		{name: "revoked", body: `{"refresh_token":"r1"}`, err: model.ErrTokenRevoked, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewAuthService(t)
			if tt.wantStatus != http.StatusBadRequest {
				if tt.err != nil {
					svc.On("Refresh", mock.Anything, "r1").Return(service.Session{}, tt.err).Once()
				} else {
					svc.On("Refresh", mock.Anything, "r1").Return(newSession(uuid.New()), nil).Once()
				}
			}
			h := NewAuth(svc, contextManager, testutil.MakeNoopLogger())

			rec := serve(t, http.MethodPost, "/auth/refresh", "/auth/refresh", tt.body, uuid.Nil, h.Refresh)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuth_SignOut(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("everywhere", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("SignOut", mock.Anything, userID, "", true).Return(nil).Once()
		h := NewAuth(svc, contextManager, testutil.MakeNoopLogger())

		rec := serve(t, http.MethodPost, "/auth/signout", "/auth/signout", `{"all":true}`, userID, h.SignOut)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("without body", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewAuthService(t)
		svc.On("SignOut", mock.Anything, userID, "", false).Return(nil).Once()
		h := NewAuth(svc, contextManager, testutil.MakeNoopLogger())

		rec := serve(t, http.MethodPost, "/auth/signout", "/auth/signout", "", userID, h.SignOut)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		h := NewAuth(mocks.NewAuthService(t), contextManager, testutil.MakeNoopLogger())
		rec := serve(t, http.MethodPost, "/auth/signout", "/auth/signout", "", uuid.Nil, h.SignOut)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuth_Me(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := mocks.NewAuthService(t)
	svc.On("Me", mock.Anything, userID).
		Return(model.User{ID: userID, Email: "grace@example.com", DisplayName: "Grace"}, nil).Once()
	svc.On("UpdateDisplayName", mock.Anything, userID, "").
		Return(model.User{ID: userID, Email: "grace@example.com"}, nil).Once()
	svc.On("UpdateDisplayName", mock.Anything, userID, "x").
		Return(model.User{}, service.ErrDisplayNameSize).Once()
	h := NewAuth(svc, contextManager, testutil.MakeNoopLogger())

	rec := serve(t, http.MethodGet, "/me", "/me", "", userID, h.Me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_name":"Grace"`)

	rec = serve(t, http.MethodPatch, "/me", "/me", `{"display_name":""}`, userID, h.UpdateMe)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_name":"grace"`)

	rec = serve(t, http.MethodPatch, "/me", "/me", `{"display_name":"x"}`, userID, h.UpdateMe)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
