package form

import "github.com/okian/betterrest/pkg/logger"

// Option applies a configuration option to the Form.
type Option func(*Form)

// WithObserver registers a callback invoked with every new state, including
// the initial one.
func WithObserver(o Observer) Option {
	return func(f *Form) {
		f.observer = o
	}
}

// WithLogger sets a custom logger for the form.
func WithLogger(l logger.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}
