// Package form holds the live bedtime form: three editable inputs and the
// result of the most recent estimate.
//
// Every discrete input change runs exactly one synchronous estimate and
// replaces the displayed result. A Form serializes its own mutations, so at
// most one computation is active per form.
package form

import (
	"context"
	"sync"

	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/pkg/logger"
	"github.com/okian/betterrest/pkg/metrics"
)

// Field names an editable input. The values double as metric labels and
// JSON keys.
type Field string

const (
	FieldInitial    Field = "initial"
	FieldWakeUp     Field = "wake_up"
	FieldSleepHours Field = "sleep_hours"
	FieldCoffeeCups Field = "coffee_cups"
)

// Estimator is the computation a form triggers.
type Estimator interface {
	Estimate(ctx context.Context, in model.Inputs) estimator.Result
}

// Change carries the fields a client edited. Nil fields are untouched.
type Change struct {
	WakeUp     *model.TimeOfDay
	SleepHours *float64
	CoffeeCups *int
}

// Empty reports whether the change touches no field.
func (c Change) Empty() bool {
	return c.WakeUp == nil && c.SleepHours == nil && c.CoffeeCups == nil
}

// State is a consistent snapshot of a form.
type State struct {
	Inputs   model.Inputs
	Result   estimator.Result
	Revision uint64 // number of estimates run, including the initial one
}

// Observer receives every new state. It runs synchronously while the form is
// locked and must not call back into the form.
type Observer func(State)

// Form is a live estimation form.
type Form struct {
	mu       sync.Mutex
	est      Estimator
	inputs   model.Inputs
	result   estimator.Result
	revision uint64
	observer Observer
	logger   logger.Logger
}

// New creates a form with the given inputs and runs the initial estimate.
func New(ctx context.Context, est Estimator, in model.Inputs, opts ...Option) *Form {
	f := &Form{est: est, inputs: in}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Get().Named("form")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.recalculate(ctx, FieldInitial)
	return f
}

// SetWakeUp changes the wake time. It reports whether an estimate ran.
func (f *Form) SetWakeUp(ctx context.Context, t model.TimeOfDay) (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := f.setWakeUp(ctx, t)
	return f.state(), changed
}

// SetSleepHours changes the desired sleep amount.
func (f *Form) SetSleepHours(ctx context.Context, h float64) (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := f.setSleepHours(ctx, h)
	return f.state(), changed
}

// SetCoffeeCups changes the coffee intake.
func (f *Form) SetCoffeeCups(ctx context.Context, n int) (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := f.setCoffeeCups(ctx, n)
	return f.state(), changed
}

// Apply applies c as successive discrete changes in the order wake, sleep,
// coffee and returns the number of estimates run.
func (f *Form) Apply(ctx context.Context, c Change) (State, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	if c.WakeUp != nil && f.setWakeUp(ctx, *c.WakeUp) {
		n++
	}
	if c.SleepHours != nil && f.setSleepHours(ctx, *c.SleepHours) {
		n++
	}
	if c.CoffeeCups != nil && f.setCoffeeCups(ctx, *c.CoffeeCups) {
		n++
	}
	return f.state(), n
}

// Snapshot returns the current state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state()
}

func (f *Form) setWakeUp(ctx context.Context, t model.TimeOfDay) bool {
	if f.inputs.WakeUp == t {
		return false
	}
	f.inputs.WakeUp = t
	f.recalculate(ctx, FieldWakeUp)
	return true
}

func (f *Form) setSleepHours(ctx context.Context, h float64) bool {
	if f.inputs.SleepHours == h {
		return false
	}
	f.inputs.SleepHours = h
	f.recalculate(ctx, FieldSleepHours)
	return true
}

func (f *Form) setCoffeeCups(ctx context.Context, n int) bool {
	if f.inputs.CoffeeCups == n {
		return false
	}
	f.inputs.CoffeeCups = n
	f.recalculate(ctx, FieldCoffeeCups)
	return true
}

// recalculate must be called with f.mu held.
func (f *Form) recalculate(ctx context.Context, field Field) {
	f.result = f.est.Estimate(ctx, f.inputs)
	f.revision++
	metrics.RecordRecalculation(string(field))

	f.logger.Debug(ctx, "form recalculated",
		logger.String("field", string(field)),
		logger.Any("revision", f.revision),
		logger.Bool("ok", f.result.OK()),
	)

	if f.observer != nil {
		f.observer(f.state())
	}
}

func (f *Form) state() State {
	return State{Inputs: f.inputs, Result: f.result, Revision: f.revision}
}
