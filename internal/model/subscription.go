package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStore reads subscription state written by the payment provider integration.
type SubscriptionStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Subscription, error)
}

// SubscriptionStatus mirrors the payment provider's subscription status values.
type SubscriptionStatus string

const (
	SubscriptionNotStarted        SubscriptionStatus = "not_started"
	SubscriptionIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionTrialing          SubscriptionStatus = "trialing"
	SubscriptionActive            SubscriptionStatus = "active"
	SubscriptionPastDue           SubscriptionStatus = "past_due"
	SubscriptionCanceled          SubscriptionStatus = "canceled"
	SubscriptionUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionPaused            SubscriptionStatus = "paused"
)

// Subscription is a user's billing state.
type Subscription struct {
	UserID             uuid.UUID
	CustomerID         string
	SubscriptionID     string
	Status             SubscriptionStatus
	PriceID            string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	PaymentMethodBrand string
	PaymentMethodLast4 string
}

// Product is an entry of the purchasable product catalog.
type Product struct {
	PriceID     string
	Name        string
	Description string
	Mode        string
}
