package model

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPremiumRequired    = errors.New("premium subscription required")

	ErrEmptyContent = errors.New("entry content must not be empty")
	ErrInvalidMood  = errors.New("mood must be one of happy, neutral, sad")

	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
