package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// TokenService issues token pairs and rotates refresh tokens.
// Only the sha256 of a refresh token is persisted.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	refreshTTL time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, refreshTTL time.Duration, logger *logger.Logger) *TokenService {
	return &TokenService{
		manager:    manager,
		store:      store,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Issue creates a fresh access/refresh pair for userID.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	return s.issue(ctx, userID, nil)
}

// Refresh exchanges a valid refresh token for a new pair and revokes the presented one.
func (s *TokenService) Refresh(ctx context.Context, presented string) (uuid.UUID, model.TokenPair, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return uuid.Nil, model.TokenPair{}, err
	}

	stored, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		return uuid.Nil, model.TokenPair{}, err
	}

	if err := stored.Verify(hashRefresh(presented), s.now()); err != nil {
		s.logger.Warn("Token service: refresh rejected",
			"user_id", userID,
			"jti", jti,
			"error", err.Error())
		return uuid.Nil, model.TokenPair{}, err
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return uuid.Nil, model.TokenPair{}, fmt.Errorf("failed to revoke rotated refresh token: %w", err)
	}

	pair, err := s.issue(ctx, userID, &stored.JTI)
	if err != nil {
		return uuid.Nil, model.TokenPair{}, err
	}
	return userID, pair, nil
}

// RevokeByToken revokes the presented refresh token. A token owned by anyone other
// than userID is rejected with model.ErrTokenMismatch and left untouched.
func (s *TokenService) RevokeByToken(ctx context.Context, userID uuid.UUID, presented string) error {
	owner, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return err
	}
	if owner != userID {
		s.logger.Warn("Token service: refresh token presented by another user",
			"user_id", userID,
			"owner_id", owner,
			"jti", jti)
		return model.ErrTokenMismatch
	}
	return s.store.RevokeByJTI(ctx, jti)
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

// GetUserID validates an access token.
func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}

// PurgeExpired deletes refresh tokens that can no longer be used.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	if n > 0 {
		s.logger.Info("Token service: purged expired refresh tokens", "count", n)
	}
	return n, nil
}

func (s *TokenService) issue(ctx context.Context, userID uuid.UUID, rotatedFrom *string) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := s.now()
	if err := s.store.Create(ctx, model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
