package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindweave/mindweave-server/internal/model"
)

var _ model.SubscriptionStore = (*SubscriptionRepository)(nil)

// SubscriptionRepository reads billing state synced from the payment provider.
type SubscriptionRepository struct {
	db *Connection
}

func NewSubscriptionRepository(db *Connection) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Subscription, error) {
	const query = `
		SELECT user_id, customer_id, subscription_id, subscription_status, price_id,
		       current_period_start, current_period_end, cancel_at_period_end,
		       payment_method_brand, payment_method_last4
		FROM stripe_user_subscriptions WHERE user_id = $1`

	var s model.Subscription
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.CustomerID, &s.SubscriptionID, &s.Status, &s.PriceID,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd,
		&s.PaymentMethodBrand, &s.PaymentMethodLast4,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Subscription{}, model.ErrNotFound
		}
		return model.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// Upsert records the provider's latest view of a user's subscription.
func (r *SubscriptionRepository) Upsert(ctx context.Context, s model.Subscription) error {
	const query = `
		INSERT INTO stripe_user_subscriptions (
			user_id, customer_id, subscription_id, subscription_status, price_id,
			current_period_start, current_period_end, cancel_at_period_end,
			payment_method_brand, payment_method_last4, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			subscription_id = EXCLUDED.subscription_id,
			subscription_status = EXCLUDED.subscription_status,
			price_id = EXCLUDED.price_id,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			payment_method_brand = EXCLUDED.payment_method_brand,
			payment_method_last4 = EXCLUDED.payment_method_last4,
			updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query,
		s.UserID, s.CustomerID, s.SubscriptionID, string(s.Status), s.PriceID,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAtPeriodEnd,
		s.PaymentMethodBrand, s.PaymentMethodLast4,
	); err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}
