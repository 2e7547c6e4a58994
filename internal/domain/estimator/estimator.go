// Package estimator turns form inputs into a recommended bedtime.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/pkg/logger"
	"github.com/okian/betterrest/pkg/metrics"
)

// User-facing failure text.
const (
	ErrorTitle   = "Error"
	ErrorMessage = "Sorry, there was a problem calculating your bedtime."
)

// CalculationError is the only failure that leaves the estimator. It never
// carries internal detail.
type CalculationError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewCalculationError returns the fixed user-facing error.
func NewCalculationError() *CalculationError {
	return &CalculationError{Title: ErrorTitle, Message: ErrorMessage}
}

func (e *CalculationError) Error() string {
	return e.Title + ": " + e.Message
}

// Result is either a bedtime or a CalculationError.
type Result struct {
	Bedtime        model.TimeOfDay
	PredictedSleep float64 // seconds
	Err            *CalculationError
}

// OK reports whether the estimate succeeded.
func (r Result) OK() bool { return r.Err == nil }

// PredictedDuration returns the predicted sleep as a duration.
func (r Result) PredictedDuration() time.Duration {
	return time.Duration(r.PredictedSleep * float64(time.Second))
}

// Estimator orchestrates feature extraction, prediction and time arithmetic.
type Estimator struct {
	predictor predictor.Predictor
	logger    logger.Logger
}

// New creates an Estimator over p.
func New(p predictor.Predictor, opts ...Option) *Estimator {
	e := &Estimator{predictor: p}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("estimator")
	}
	return e
}

// Features converts inputs to model features. Only hour and minute of the
// wake time contribute.
func Features(in model.Inputs) predictor.Features {
	return predictor.Features{
		WakeSeconds: float64(in.WakeUp.SecondsSinceMidnight()),
		SleepHours:  in.SleepHours,
		CoffeeCups:  float64(in.CoffeeCups),
	}
}

// Estimate computes the recommended bedtime. Out-of-domain inputs are
// forwarded unchanged. It never panics and never returns internal errors.
func (e *Estimator) Estimate(ctx context.Context, in model.Inputs) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = e.fail(ctx, in, fmt.Errorf("%w: %v", ErrPredictorPanic, r))
		}
		metrics.RecordEstimateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := in.Validate(); err != nil {
		e.logger.Debug(ctx, "estimating with out-of-domain inputs", logger.Error(err))
	}

	predicted, err := e.predict(ctx, Features(in))
	if err != nil {
		return e.fail(ctx, in, err)
	}

	metrics.RecordEstimate(metrics.OutcomeSuccess)
	metrics.RecordPredictedSleep(predicted)
	return Result{
		Bedtime:        in.WakeUp.Minus(predicted),
		PredictedSleep: predicted,
	}
}

func (e *Estimator) predict(ctx context.Context, f predictor.Features) (float64, error) {
	if e.predictor == nil {
		return 0, predictor.ErrModelUnavailable
	}
	predicted, err := e.predictor.Predict(ctx, f)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinitePrediction, predicted)
	}
	return predicted, nil
}

func (e *Estimator) fail(ctx context.Context, in model.Inputs, err error) Result {
	reason := "evaluation_failed"
	switch {
	case errors.Is(err, predictor.ErrModelUnavailable):
		reason = "model_unavailable"
	case errors.Is(err, ErrNonFinitePrediction):
		reason = "non_finite"
	case errors.Is(err, ErrPredictorPanic):
		reason = "panic"
	}
	metrics.RecordEstimate(metrics.OutcomeFailure)
	metrics.RecordErrorByComponent("estimator", reason)
	e.logger.Warn(ctx, "bedtime calculation failed",
		logger.String("wake_up", in.WakeUp.String()),
		logger.Float64("sleep_hours", in.SleepHours),
		logger.Int("coffee_cups", in.CoffeeCups),
		logger.String("reason", reason),
		logger.Error(err),
	)
	return Result{Err: NewCalculationError()}
}
