// Package connect opens backend sessions with a bounded retry budget.
package connect

import (
	"context"
	"log/slog"
	"time"

	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"
)

// Policy bounds connection attempts.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// WithRetry calls c.Connect until it succeeds or the policy is exhausted,
// waiting a fixed delay between attempts. Exhaustion is a ConnectionFailure.
func WithRetry(ctx context.Context, logger *slog.Logger, c store.Connector, policy Policy) (store.Store, error) {
	attempts := max(policy.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		st, err := c.Connect(ctx)
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "Connected after retry",
					slog.String("backend", c.Backend().String()),
					slog.String("driver", c.Driver()),
					slog.Int("attempt", attempt),
				)
			}

			return st, nil
		}
		lastErr = err

		logger.WarnContext(ctx, "Connection attempt failed",
			slog.String("backend", c.Backend().String()),
			slog.String("driver", c.Driver()),
			slog.Int("attempt", attempt),
			slog.Int("maxAttempts", attempts),
			slog.Any("error", err),
		)

		if attempt == attempts {
			break
		}
		if err := sleep(ctx, policy.Delay); err != nil {
			lastErr = errors.Join(lastErr, err)

			break
		}
	}

	return nil, domainerrors.New(domainerrors.ConnectionFailure, c.Backend().String(),
		"connect "+c.Driver(), lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
