package estimator

import "errors"

// Internal failure kinds. They are logged and counted, never returned.
var (
	ErrNonFinitePrediction = errors.New("prediction is not finite")
	ErrPredictorPanic      = errors.New("predictor panicked")
)
