package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave-server/internal/mocks"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

func TestSubscription_Status(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		sub         model.Subscription
		err         error
		wantActive  bool
		wantPending bool
		wantProduct string
		wantErr     bool
	}{
		{
			name:        "active premium",
			sub:         model.Subscription{UserID: userID, Status: model.SubscriptionActive, PriceID: PremiumProduct.PriceID},
			wantActive:  true,
			wantProduct: "Mindweave Premium",
		},
		{
			name:        "incomplete is pending",
			sub:         model.Subscription{UserID: userID, Status: model.SubscriptionIncomplete, PriceID: PremiumProduct.PriceID},
			wantPending: true,
			wantProduct: "Mindweave Premium",
		},
		{
			name:        "not started is pending",
			sub:         model.Subscription{UserID: userID, Status: model.SubscriptionNotStarted},
			wantPending: true,
		},
		{
			name: "trialing is neither",
			sub:  model.Subscription{UserID: userID, Status: model.SubscriptionTrialing, PriceID: "price_unknown"},
		},
		{
			name: "never subscribed",
			err:  model.ErrNotFound,
		},
		{
			name:    "store failure",
			err:     assert.AnError,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewSubscriptionStore(t)
			store.On("GetByUserID", mock.Anything, userID).Return(tt.sub, tt.err).Once()
			svc := NewSubscription(store, nil, testutil.MakeNoopLogger())

			status, err := svc.Status(context.Background(), userID)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, status.Subscription.UserID)
			assert.Equal(t, tt.wantActive, status.Active)
			assert.Equal(t, tt.wantPending, status.Pending)
			assert.Equal(t, tt.wantProduct, status.ProductName)
		})
	}
}

func TestSubscription_RequirePremium(t *testing.T) {
	t.Parallel()

	free, premium := uuid.New(), uuid.New()
	store := mocks.NewSubscriptionStore(t)
	store.On("GetByUserID", mock.Anything, free).Return(model.Subscription{}, model.ErrNotFound).Once()
	store.On("GetByUserID", mock.Anything, premium).Return(model.Subscription{Status: model.SubscriptionActive}, nil).Once()

	svc := NewSubscription(store, []model.Product{PremiumProduct}, testutil.MakeNoopLogger())

	require.ErrorIs(t, svc.RequirePremium(context.Background(), free), model.ErrPremiumRequired)
	require.NoError(t, svc.RequirePremium(context.Background(), premium))
}
