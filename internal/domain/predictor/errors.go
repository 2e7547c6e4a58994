package predictor

import "errors"

// Sentinel kinds for prediction errors.
var (
	ErrModelUnavailable    = errors.New("model unavailable")
	ErrInvalidCoefficients = errors.New("invalid model coefficients")
)
