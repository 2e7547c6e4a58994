// Package types contains the wire shapes shared by the service and its
// presentation layers.
package types

import (
	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/predictor"
)

// Inputs are the form inputs as exchanged with clients.
type Inputs struct {
	WakeUp     string  `json:"wake_up"`
	SleepHours float64 `json:"sleep_hours"`
	CoffeeCups int     `json:"coffee_cups"`
}

// CalculationError is the displayable failure.
type CalculationError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Estimate is either a bedtime or an error, never both.
type Estimate struct {
	Bedtime               string            `json:"bedtime,omitempty"`
	Display               string            `json:"display,omitempty"`
	PredictedSleepSeconds *float64          `json:"predicted_sleep_seconds,omitempty"`
	Error                 *CalculationError `json:"error,omitempty"`
}

// FormState is a live form as returned by the forms API.
type FormState struct {
	ID             string   `json:"id"`
	Inputs         Inputs   `json:"inputs"`
	Estimate       Estimate `json:"estimate"`
	Revision       uint64   `json:"revision"`
	Recalculations *int     `json:"recalculations,omitempty"`
	Duplicate      bool     `json:"duplicate,omitempty"`
}

// ModelInfo describes the loaded coefficient set.
type ModelInfo struct {
	Loaded       bool                    `json:"loaded"`
	Source       string                  `json:"source"`
	Coefficients *predictor.Coefficients `json:"coefficients,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

// FromInputs converts domain inputs.
func FromInputs(in model.Inputs) Inputs {
	return Inputs{
		WakeUp:     in.WakeUp.String(),
		SleepHours: in.SleepHours,
		CoffeeCups: in.CoffeeCups,
	}
}

// FromResult converts an estimator result.
func FromResult(r estimator.Result) Estimate {
	if !r.OK() {
		return Estimate{Error: &CalculationError{Title: r.Err.Title, Message: r.Err.Message}}
	}
	predicted := r.PredictedSleep
	return Estimate{
		Bedtime:               r.Bedtime.String(),
		Display:               r.Bedtime.Kitchen(),
		PredictedSleepSeconds: &predicted,
	}
}

// FromState converts a form snapshot.
func FromState(id string, s form.State) FormState {
	return FormState{
		ID:       id,
		Inputs:   FromInputs(s.Inputs),
		Estimate: FromResult(s.Result),
		Revision: s.Revision,
	}
}
