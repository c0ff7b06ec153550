package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/service"
)

// AuthService defines the identity provider operations exposed over HTTP.
type AuthService interface {
	SignUp(ctx context.Context, email, password, displayName string) (service.Session, error)
	SignIn(ctx context.Context, email, password string) (service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (service.Session, error)
	SignOut(ctx context.Context, userID uuid.UUID, refreshToken string, all bool) error
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (model.User, error)
}

// Auth handles sign-up, sign-in, token refresh, sign-out and the profile endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type signOutRequest struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

type updateMeRequest struct {
	DisplayName string `json:"display_name"`
}

// SignUp registers a user and starts a session.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.logger.Info("Auth handler: sign-up rejected", "error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: sign-up completed", "user_id", session.User.ID)
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

// SignIn authenticates with email and password.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, model.ErrInvalidCredentials) {
			h.logger.Error("Auth handler: sign-in failed", "error", err.Error())
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// Refresh rotates a refresh token.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	session, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: refresh rejected", "error", err.Error())
		// An unknown token id is an authentication failure, not a missing resource.
		if errors.Is(err, model.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// SignOut revokes the presented refresh token, or all of the user's tokens.
func (h *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	var req signOutRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := h.authService.SignOut(r.Context(), userID, req.RefreshToken, req.All); err != nil {
		h.logger.Error("Auth handler: sign-out failed",
			"user_id", userID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// UpdateMe changes the display name. An empty name falls back to the email local part.
func (h *Auth) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.authService.UpdateDisplayName(r.Context(), userID, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}
