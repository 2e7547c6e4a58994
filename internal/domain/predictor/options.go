package predictor

// Option applies a configuration option to the Linear predictor.
type Option func(*Linear)

// WithSource labels where the coefficients came from (file path, "embedded").
func WithSource(source string) Option {
	return func(p *Linear) {
		if source != "" {
			p.source = source
		}
	}
}
