package model

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore keeps one row per issued refresh token so sessions can be rotated and revoked.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	// DeleteExpired removes tokens that expired or were revoked before the given moment.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// RefreshToken is the stored side of a refresh token. Only a SHA-256 of the token is kept.
type RefreshToken struct {
	ID             uuid.UUID
	JTI            string
	UserID         uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Verify reports whether presentedHash may still be exchanged at now.
func (rt RefreshToken) Verify(presentedHash []byte, now time.Time) error {
	switch {
	case rt.RevokedAt != nil:
		return ErrTokenRevoked
	case now.After(rt.ExpiresAt):
		return ErrTokenExpired
	case subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1:
		return ErrTokenMismatch
	}
	return nil
}
