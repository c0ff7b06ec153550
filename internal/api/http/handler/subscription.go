package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/service"
)

// SubscriptionService looks up a user's billing state.
type SubscriptionService interface {
	Status(ctx context.Context, userID uuid.UUID) (service.SubscriptionStatus, error)
}

type Subscription struct {
	subscriptions  SubscriptionService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewSubscription(subscriptions SubscriptionService, contextManager model.ContextManager, logger *logger.Logger) *Subscription {
	return &Subscription{
		subscriptions:  subscriptions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Status returns the user's plan. Users who never subscribed are on the free plan.
func (h *Subscription) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := h.subscriptions.Status(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubscriptionResponse(status))
}
