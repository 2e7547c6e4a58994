package estimator

import "github.com/okian/betterrest/pkg/logger"

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithLogger sets a custom logger for the estimator.
func WithLogger(l logger.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.logger = l
		}
	}
}
