package notion

import (
	"context"

	"github.com/sethvargo/go-retry"
)

// withRetry runs fn under the client's retry policy: bounded exponential
// backoff starting at retryBase and doubling per attempt, up to maxAttempts
// total tries.
//
// Classification: permanent API errors (400/403/404) propagate immediately
// and are never retried. Everything else (rate limits, server errors,
// transport failures) is retried; exhausting the budget returns the last
// transient error.
func (c *Client) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := c.maxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(c.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}
