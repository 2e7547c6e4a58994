package api

import (
	"errors"
	"strings"

	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
)

// inputsRequest mirrors the OpenAPI schema shared by POST /estimate and
// PATCH /forms/{id}. Absent fields are nil.
type inputsRequest struct {
	ChangeID   string   `json:"change_id"`
	WakeUp     *string  `json:"wake_up"`
	SleepHours *float64 `json:"sleep_hours"`
	CoffeeCups *int     `json:"coffee_cups"`
}

// change validates the present fields. The form layer only ever sees values
// inside the offered domains.
func (r inputsRequest) change() (form.Change, error) {
	var c form.Change
	if r.WakeUp != nil {
		t, err := model.ParseTimeOfDay(strings.TrimSpace(*r.WakeUp))
		if err != nil {
			return form.Change{}, err
		}
		c.WakeUp = &t
	}
	if r.SleepHours != nil {
		if err := model.ValidateSleepHours(*r.SleepHours); err != nil {
			return form.Change{}, err
		}
		c.SleepHours = r.SleepHours
	}
	if r.CoffeeCups != nil {
		if err := model.ValidateCoffeeCups(*r.CoffeeCups); err != nil {
			return form.Change{}, err
		}
		c.CoffeeCups = r.CoffeeCups
	}
	return c, nil
}

// inputs fills absent fields with the form defaults.
func (r inputsRequest) inputs() (model.Inputs, error) {
	c, err := r.change()
	if err != nil {
		return model.Inputs{}, err
	}
	in := model.DefaultInputs()
	if c.WakeUp != nil {
		in.WakeUp = *c.WakeUp
	}
	if c.SleepHours != nil {
		in.SleepHours = *c.SleepHours
	}
	if c.CoffeeCups != nil {
		in.CoffeeCups = *c.CoffeeCups
	}
	return in, nil
}

var errEmptyChange = errors.New("change must set at least one of wake_up, sleep_hours, coffee_cups")
