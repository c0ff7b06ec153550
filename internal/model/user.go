package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDisplayName is shown when neither a display name nor an email is known.
const DefaultDisplayName = "User"

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (User, error)
}

// User represents a registered journal owner.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// ResolvedDisplayName returns the explicit display name, the email local part, or DefaultDisplayName.
func (u User) ResolvedDisplayName() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(u.Email, "@"); local != "" {
		return local
	}
	return DefaultDisplayName
}
