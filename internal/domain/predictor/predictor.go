// Package predictor evaluates the pretrained sleep regression model.
//
// The model is linear over three features:
//
//	predicted = Wake*wakeSeconds + Sleep*sleepHours + Coffee*coffeeCups + Bias
//
// Coefficients are loaded exactly once when the Linear predictor is built and
// are read-only afterwards, so a single Linear may be shared by any number of
// goroutines.
package predictor

import (
	"context"
	"fmt"
	"math"
)

// Coefficients is the fitted weight set of the sleep model.
type Coefficients struct {
	Wake   float64 `koanf:"wake" json:"wake"`
	Sleep  float64 `koanf:"estimated_sleep" json:"estimated_sleep"`
	Coffee float64 `koanf:"coffee" json:"coffee"`
	Bias   float64 `koanf:"bias" json:"bias"`
}

// Validate rejects NaN and infinite weights.
func (c Coefficients) Validate() error {
	for name, v := range map[string]float64{
		"wake":            c.Wake,
		"estimated_sleep": c.Sleep,
		"coffee":          c.Coffee,
		"bias":            c.Bias,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidCoefficients, name, v)
		}
	}
	return nil
}

// Features are the model inputs, already converted to real numbers.
type Features struct {
	WakeSeconds float64
	SleepHours  float64
	CoffeeCups  float64
}

// Predictor returns the predicted sleep need in seconds.
type Predictor interface {
	Predict(ctx context.Context, f Features) (float64, error)
}

// Loader resolves a coefficient set. Implementations may touch disk.
type Loader interface {
	Load(ctx context.Context) (Coefficients, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (Coefficients, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (Coefficients, error) { return f(ctx) }

// Static returns a Loader that always yields c.
func Static(c Coefficients) Loader {
	return LoaderFunc(func(context.Context) (Coefficients, error) { return c, nil })
}

// Linear is the production Predictor.
type Linear struct {
	coef    Coefficients
	loadErr error
	source  string
}

// New loads the coefficients once through loader. A failed load does not
// fail construction: the error is kept and every Predict reports
// ErrModelUnavailable.
func New(ctx context.Context, loader Loader, opts ...Option) *Linear {
	p := &Linear{source: "unknown"}
	for _, opt := range opts {
		opt(p)
	}

	if loader == nil {
		p.loadErr = fmt.Errorf("%w: no loader configured", ErrModelUnavailable)
		return p
	}

	coef, err := loader.Load(ctx)
	if err == nil {
		err = coef.Validate()
	}
	if err != nil {
		p.loadErr = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		return p
	}
	p.coef = coef
	return p
}

// Predict evaluates the linear model. It never validates feature ranges.
func (p *Linear) Predict(_ context.Context, f Features) (float64, error) {
	if p.loadErr != nil {
		return 0, p.loadErr
	}
	return Evaluate(p.coef, f), nil
}

// Err returns the load error, if any.
func (p *Linear) Err() error { return p.loadErr }

// Ready reports whether the coefficients loaded.
func (p *Linear) Ready() bool { return p.loadErr == nil }

// Source describes where the coefficients came from.
func (p *Linear) Source() string { return p.source }

// Coefficients returns a copy of the loaded weights.
func (p *Linear) Coefficients() (Coefficients, error) {
	if p.loadErr != nil {
		return Coefficients{}, p.loadErr
	}
	return p.coef, nil
}

// Evaluate computes the linear combination in a fixed order. The explicit
// float64 conversions forbid fused multiply-add so results are identical on
// every architecture.
func Evaluate(c Coefficients, f Features) float64 {
	sum := float64(c.Wake * f.WakeSeconds)
	sum = float64(sum + float64(c.Sleep*f.SleepHours))
	sum = float64(sum + float64(c.Coffee*f.CoffeeCups))
	return sum + c.Bias
}
