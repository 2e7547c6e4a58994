package repository

import "time"

// Option applies a configuration option to the OtterStore.
type Option func(*OtterStore)

// WithMaxForms bounds the number of live forms.
func WithMaxForms(n int) Option {
	return func(s *OtterStore) {
		if n > 0 {
			s.maxForms = n
		}
	}
}

// WithTTL sets how long a form lives after its last write.
func WithTTL(ttl time.Duration) Option {
	return func(s *OtterStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}
