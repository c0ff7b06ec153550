package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/model"
)

type ctxKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager keeps the authenticated user id on the request context.
type Manager struct{}

// NewManager creates a new context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// GetUserIDFromContext returns the user id set by SetUserIDToContext.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
