package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionEventType names a change of the authenticated identity.
type SessionEventType string

const (
	SessionSignedIn       SessionEventType = "signed_in"
	SessionSignedOut      SessionEventType = "signed_out"
	SessionRefreshed      SessionEventType = "token_refreshed"
	SessionProfileUpdated SessionEventType = "user_updated"
)

// SessionEvent is emitted whenever a user's session or profile changes.
type SessionEvent struct {
	Type   SessionEventType `json:"type"`
	UserID uuid.UUID        `json:"user_id"`
	At     time.Time        `json:"at"`
}

// SessionPublisher broadcasts session events to interested parties.
type SessionPublisher interface {
	Publish(event SessionEvent)
}

// ContextManager stores and retrieves the authenticated user on a request context.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
