package artifact

import (
	"context"
	"errors"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/pkg/logger"
	"github.com/okian/betterrest/pkg/metrics"
)

const maxRetryDelay = 5 * time.Second

// Retrying wraps loader so transient read failures are retried with
// exponential backoff. Incomplete or corrupt artifacts fail immediately.
func Retrying(loader predictor.Loader, attempts int, delay time.Duration, log logger.Logger) predictor.Loader {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}

	return predictor.LoaderFunc(func(ctx context.Context) (predictor.Coefficients, error) {
		var coef predictor.Coefficients
		err := retry.Do(
			func() error {
				c, err := loader.Load(ctx)
				if err != nil {
					metrics.RecordModelLoadAttempt(metrics.OutcomeFailure)
					if errors.Is(err, ErrIncompleteArtifact) {
						return retry.Unrecoverable(err)
					}
					return err
				}
				metrics.RecordModelLoadAttempt(metrics.OutcomeSuccess)
				coef = c
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(uint(attempts)),
			retry.Delay(delay),
			retry.MaxDelay(maxRetryDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.OnRetry(func(n uint, err error) {
				log.Warn(ctx, "retrying model artifact load",
					logger.Int("attempt", int(n)+1),
					logger.Error(err),
				)
			}),
			retry.LastErrorOnly(true),
		)
		return coef, err
	})
}
