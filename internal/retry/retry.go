package retry

import (
	"context"
	"fmt"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // doubling schedule: Delay, 2*Delay, 4*Delay, ...
}

// DelayFor returns the wait before the next attempt after attempt n failed.
// Pure so the schedule can be asserted without sleeping.
func DelayFor(config RetryConfig, attempt int) time.Duration {
	if !config.Backoff || attempt <= 1 {
		return config.Delay
	}
	return config.Delay << (attempt - 1)
}

func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if attempt == config.MaxAttempts {
				return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, err)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(DelayFor(config, attempt)):
				continue
			}
		}
		return nil
	}

	return lastErr
}
