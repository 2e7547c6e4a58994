package model

import (
	"errors"
	"fmt"
)

// Input domains offered by the presentation layer.
const (
	MinSleepHours  = 4.0
	MaxSleepHours  = 12.0
	SleepHoursStep = 0.25
	MinCoffeeCups  = 1
	MaxCoffeeCups  = 5

	DefaultSleepHours = 8.0
	DefaultCoffeeCups = 1
)

// Sentinel errors for input validation.
var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrSleepOutOfRange  = errors.New("sleep hours out of range")
	ErrCoffeeOutOfRange = errors.New("coffee cups out of range")
)

// DefaultWakeUp is the wake time shown before any user interaction.
func DefaultWakeUp() TimeOfDay { return TimeOfDay{Hour: 7, Minute: 0} }

// Inputs are the three values a user edits on the form.
type Inputs struct {
	WakeUp     TimeOfDay
	SleepHours float64
	CoffeeCups int
}

// DefaultInputs returns 07:00, 8 hours, 1 cup.
func DefaultInputs() Inputs {
	return Inputs{
		WakeUp:     DefaultWakeUp(),
		SleepHours: DefaultSleepHours,
		CoffeeCups: DefaultCoffeeCups,
	}
}

// Validate checks the domains the presentation layer is expected to enforce.
// The estimator itself never calls it.
func (in Inputs) Validate() error {
	if _, err := NewTimeOfDay(in.WakeUp.Hour, in.WakeUp.Minute); err != nil {
		return err
	}
	if err := ValidateSleepHours(in.SleepHours); err != nil {
		return err
	}
	return ValidateCoffeeCups(in.CoffeeCups)
}

// ValidateSleepHours checks 4.0 <= h <= 12.0. NaN is rejected.
func ValidateSleepHours(h float64) error {
	if !(h >= MinSleepHours && h <= MaxSleepHours) {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrSleepOutOfRange, h, MinSleepHours, MaxSleepHours)
	}
	return nil
}

// ValidateCoffeeCups checks 1 <= n <= 5.
func ValidateCoffeeCups(n int) error {
	if n < MinCoffeeCups || n > MaxCoffeeCups {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrCoffeeOutOfRange, n, MinCoffeeCups, MaxCoffeeCups)
	}
	return nil
}
