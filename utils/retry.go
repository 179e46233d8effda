package utils

import (
	"context"
	"time"
)

// Retry runs fn up to attempts+1 times with exponential backoff, for read-only
// calls only. State-changing calls must never go through here.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	delay := baseDelay
	for i := 0; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
