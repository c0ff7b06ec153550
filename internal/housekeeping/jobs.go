package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/mindweave/mindweave-server/internal/logger"
)

type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type IdleSweeper interface {
	Cleanup(idle time.Duration) int
}

// PurgeRefreshTokens deletes refresh tokens that expired or were revoked.
func PurgeRefreshTokens(schedule string, purger TokenPurger, logger *logger.Logger) Job {
	return Job{
		Name:     "purge_refresh_tokens",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				return fmt.Errorf("failed to purge refresh tokens: %w", err)
			}
			if n > 0 {
				logger.Info("housekeeping: refresh tokens purged", "count", n)
			}
			return nil
		},
	}
}

// SweepRateLimiters drops limiters for clients not seen within idle.
func SweepRateLimiters(schedule string, sweeper IdleSweeper, idle time.Duration, logger *logger.Logger) Job {
	return Job{
		Name:     "sweep_rate_limiters",
		Schedule: schedule,
		Run: func(context.Context) error {
			if n := sweeper.Cleanup(idle); n > 0 {
				logger.Debug("housekeeping: idle rate limiters removed", "count", n)
			}
			return nil
		},
	}
}
