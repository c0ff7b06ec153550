package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave-server/internal/mocks"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

var tokenNow = time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

func newTokenService(t *testing.T) (*TokenService, *mocks.TokenManager, *mocks.RefreshTokenStore) {
	manager := mocks.NewTokenManager(t)
	store := mocks.NewRefreshTokenStore(t)
	svc := NewTokenService(manager, store, 24*time.Hour, testutil.MakeNoopLogger())
	svc.now = func() time.Time { return tokenNow }
	return svc, manager, store
}

func TestTokenService_Issue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	svc, manager, store := newTokenService(t)

	manager.On("GenerateAccessToken", userID).Return("access", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti-1", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-1" &&
			rt.UserID == userID &&
			assert.ObjectsAreEqual(hashRefresh("refresh"), rt.TokenHash) &&
			rt.ExpiresAt.Equal(tokenNow.Add(24*time.Hour)) &&
			rt.RotatedFromJTI == nil
	})).Return(nil).Once()

	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, pair)
}

func TestTokenService_Issue_Errors(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name  string
		setup func(m *mocks.TokenManager, s *mocks.RefreshTokenStore)
	}{
		{
			name: "access signing fails",
			setup: func(m *mocks.TokenManager, _ *mocks.RefreshTokenStore) {
				m.On("GenerateAccessToken", userID).Return("", assert.AnError).Once()
			},
		},
		{
			name: "refresh signing fails",
			setup: func(m *mocks.TokenManager, _ *mocks.RefreshTokenStore) {
				m.On("GenerateAccessToken", userID).Return("access", nil).Once()
				m.On("GenerateRefreshToken", userID).Return("", "", assert.AnError).Once()
			},
		},
		{
			name: "persist fails",
			setup: func(m *mocks.TokenManager, s *mocks.RefreshTokenStore) {
				m.On("GenerateAccessToken", userID).Return("access", nil).Once()
				m.On("GenerateRefreshToken", userID).Return("refresh", "jti", nil).Once()
				s.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, manager, store := newTokenService(t)
			tt.setup(manager, store)

			_, err := svc.Issue(context.Background(), userID)
			require.ErrorIs(t, err, assert.AnError)
		})
	}
}

func TestTokenService_Refresh(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	presented := "refresh-old"
	revokedAt := tokenNow.Add(-time.Minute)

	tests := []struct {
		name    string
		stored  model.RefreshToken
		wantErr error
	}{
		{
			name: "rotates",
			stored: model.RefreshToken{
				JTI: "jti-old", UserID: userID, TokenHash: hashRefresh(presented),
				ExpiresAt: tokenNow.Add(time.Hour),
			},
		},
		{
			name: "revoked",
			stored: model.RefreshToken{
				JTI: "jti-old", UserID: userID, TokenHash: hashRefresh(presented),
				ExpiresAt: tokenNow.Add(time.Hour), RevokedAt: &revokedAt,
			},
			wantErr: model.ErrTokenRevoked,
		},
		{
			name: "expired",
			stored: model.RefreshToken{
				JTI: "jti-old", UserID: userID, TokenHash: hashRefresh(presented),
				ExpiresAt: tokenNow.Add(-time.Second),
			},
			wantErr: model.ErrTokenExpired,
		},
		{
			name: "hash mismatch",
			stored: model.RefreshToken{
				JTI: "jti-old", UserID: userID, TokenHash: hashRefresh("something else"),
				ExpiresAt: tokenNow.Add(time.Hour),
			},
			wantErr: model.ErrTokenMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			svc, manager, store := newTokenService(t)

			manager.On("ParseRefreshToken", presented).Return(userID, "jti-old", nil).Once()
			store.On("GetByJTI", ctx, "jti-old").Return(tt.stored, nil).Once()

			if tt.wantErr == nil {
				store.On("RevokeByJTI", ctx, "jti-old").Return(nil).Once()
				manager.On("GenerateAccessToken", userID).Return("access-new", nil).Once()
				manager.On("GenerateRefreshToken", userID).Return("refresh-new", "jti-new", nil).Once()
				store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
					return rt.JTI == "jti-new" && rt.RotatedFromJTI != nil && *rt.RotatedFromJTI == "jti-old"
				})).Return(nil).Once()
			}

			gotUser, pair, err := svc.Refresh(ctx, presented)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, "refresh-new", pair.RefreshToken)
		})
	}
}

func TestTokenService_Refresh_UnknownToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, manager, store := newTokenService(t)
	manager.On("ParseRefreshToken", "tok").Return(uuid.New(), "jti", nil).Once()
	store.On("GetByJTI", ctx, "jti").Return(model.RefreshToken{}, model.ErrNotFound).Once()

	_, _, err := svc.Refresh(ctx, "tok")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTokenService_RevokeByToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	svc, manager, store := newTokenService(t)

	manager.On("ParseRefreshToken", "tok").Return(userID, "jti", nil).Once()
	store.On("RevokeByJTI", ctx, "jti").Return(nil).Once()
	manager.On("ParseRefreshToken", "bad").Return(uuid.Nil, "", errors.New("malformed")).Once()
	manager.On("ParseRefreshToken", "foreign").Return(uuid.New(), "other-jti", nil).Once()

	require.NoError(t, svc.RevokeByToken(ctx, userID, "tok"))
	require.Error(t, svc.RevokeByToken(ctx, userID, "bad"))
	require.ErrorIs(t, svc.RevokeByToken(ctx, userID, "foreign"), model.ErrTokenMismatch)
	store.AssertNotCalled(t, "RevokeByJTI", ctx, "other-jti")
}

func TestTokenService_PurgeExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, store := newTokenService(t)
	store.On("DeleteExpired", ctx, tokenNow).Return(int64(3), nil).Once()
	store.On("DeleteExpired", ctx, tokenNow).Return(int64(0), assert.AnError).Once()

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = svc.PurgeExpired(ctx)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetUserID(t *testing.T) {
	t.Parallel()

	svc, manager, _ := newTokenService(t)
	userID := uuid.New()
	manager.On("ParseAccessToken", "access").Return(userID, nil).Once()

	got, err := svc.GetUserID(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
