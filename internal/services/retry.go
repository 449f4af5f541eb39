package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/passync/internal/logging"
	"github.com/dmitrijs2005/passync/internal/storage/remote"
	"github.com/sethvargo/go-retry"
)

const minRetryDelay = 10 * time.Millisecond

// withRetry runs fn, repeating it with exponential backoff while it fails
// with an error remote.IsRetryable accepts. retries is the number of extra
// attempts after the first one.
func withRetry(ctx context.Context, log logging.Logger, op string, retries int, delay time.Duration, fn func(ctx context.Context) error) error {
	if retries < 0 {
		retries = 0
	}
	if delay < minRetryDelay {
		delay = minRetryDelay
	}

	b := retry.WithMaxRetries(uint64(retries), retry.NewExponential(delay))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !remote.IsRetryable(err) {
			return err
		}
		log.Warn(ctx, "drive call failed", "op", op, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
}
