package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// PremiumProduct is the only product on sale.
var PremiumProduct = model.Product{
	PriceID: "price_1QQqL8AnuKZ0z0h6VrXXXXXX",
	Name:    "Mindweave Premium",
	Description: "Includes: Unlimited secure cloud sync, Rich text editing & media attachments, " +
		"All insights & analytics features, All customization options, All export options, " +
		"Access to premium prompts/guided sessions, Priority customer support.",
	Mode: "subscription",
}

// SubscriptionStatus is a user's billing state with the derived flags.
type SubscriptionStatus struct {
	Subscription model.Subscription
	Active       bool
	Pending      bool
	ProductName  string
}

// Subscription is a read-only gate over billing state.
type Subscription struct {
	store    model.SubscriptionStore
	products []model.Product
	logger   *logger.Logger
}

// NewSubscription creates the gate. An empty catalog uses PremiumProduct alone.
func NewSubscription(store model.SubscriptionStore, products []model.Product, logger *logger.Logger) *Subscription {
	if len(products) == 0 {
		products = []model.Product{PremiumProduct}
	}
	return &Subscription{store: store, products: products, logger: logger}
}

// Status returns the user's subscription, or a free plan when the user never subscribed.
func (s *Subscription) Status(ctx context.Context, userID uuid.UUID) (SubscriptionStatus, error) {
	sub, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Subscription service: failed to get subscription",
				"user_id", userID,
				"error", err.Error())
			return SubscriptionStatus{}, fmt.Errorf("failed to get subscription: %w", err)
		}
		sub = model.Subscription{UserID: userID}
	}

	return SubscriptionStatus{
		Subscription: sub,
		Active:       IsActive(sub),
		Pending:      IsPending(sub),
		ProductName:  s.ProductName(sub),
	}, nil
}

// RequirePremium returns model.ErrPremiumRequired unless the user's subscription is active.
func (s *Subscription) RequirePremium(ctx context.Context, userID uuid.UUID) error {
	status, err := s.Status(ctx, userID)
	if err != nil {
		return err
	}
	if !status.Active {
		return model.ErrPremiumRequired
	}
	return nil
}

// ProductName resolves the subscription's price to a catalog name, empty when unknown.
func (s *Subscription) ProductName(sub model.Subscription) string {
	if sub.PriceID == "" {
		return ""
	}
	for _, p := range s.products {
		if p.PriceID == sub.PriceID {
			return p.Name
		}
	}
	return ""
}

func IsActive(sub model.Subscription) bool {
	return sub.Status == model.SubscriptionActive
}

func IsPending(sub model.Subscription) bool {
	return sub.Status == model.SubscriptionIncomplete || sub.Status == model.SubscriptionNotStarted
}
