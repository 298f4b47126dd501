package services

import (
	"context"
	"time"

	"github.com/meridian-labs/harvest/internal/logger"
)

const (
	retryInitialDelay = 2 * time.Second
	retryMaxDelay     = 60 * time.Second
	retryMultiplier   = 2
)

// retryWithBackoff runs fn until it succeeds, the context is cancelled, or
// the context deadline expires. Delays grow exponentially from
// retryInitialDelay up to retryMaxDelay. The caller bounds total time by
// passing a context with a deadline.
func retryWithBackoff(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	delay := retryInitialDelay

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		logger.Warn("%s failed (attempt %d), retrying in %s: %v", op, attempt, delay, err)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}

		delay *= retryMultiplier
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
}
