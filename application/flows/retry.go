// Package flows composes page objects into storefront business scenarios.
package flows

import (
	"context"
	"time"

	"storefront_automation/domain/entities"

	"github.com/sirupsen/logrus"
)

// RetryPolicy repeats a whole flow step a given number of extra times,
// waiting between attempts. The zero value runs the step once.
type RetryPolicy struct {
	MaxRetries int
	Wait       time.Duration
}

// Retryable - only timeout-family failures are worth another attempt.
// Assertion failures and invalid input never are.
func Retryable(err error) bool {
	if err == nil || entities.IsAssertion(err) {
		return false
	}
	return entities.IsTimeout(err)
}

// RetryStep runs step and re-runs it while it fails with a retryable error
// and retries remain. The last error is returned unchanged.
func RetryStep[T any](ctx context.Context, policy RetryPolicy, logger logrus.FieldLogger, name string, step func(ctx context.Context) (T, error)) (T, error) {
	var (
		res T
		err error
	)
	for attempt := 0; ; attempt++ {
		res, err = step(ctx)
		if err == nil || !Retryable(err) || attempt >= policy.MaxRetries {
			return res, err
		}
		if logger != nil {
			logger.WithField("step", name).Warnf("Attempt %d/%d failed, retrying: %v", attempt+1, policy.MaxRetries+1, err)
		}
		if policy.Wait > 0 {
			timer := time.NewTimer(policy.Wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return res, err
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return res, err
		}
	}
}
