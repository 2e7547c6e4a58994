package form_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// countingEstimator wraps a real estimator and records every call.
type countingEstimator struct {
	mu    sync.Mutex
	inner *estimator.Estimator
	calls []model.Inputs
}

func newCounting() *countingEstimator {
	p := predictor.New(context.Background(), predictor.Static(predictor.Coefficients{Sleep: 3600}))
	return &countingEstimator{inner: estimator.New(p, estimator.WithLogger(logger.Nop()))}
}

func (c *countingEstimator) Estimate(ctx context.Context, in model.Inputs) estimator.Result {
	c.mu.Lock()
	c.calls = append(c.calls, in)
	c.mu.Unlock()
	return c.inner.Estimate(ctx, in)
}

func (c *countingEstimator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func ptr[T any](v T) *T { return &v }

func TestForm(t *testing.T) {
	Convey("Given a form opened with the default inputs", t, func() {
		ctx := context.Background()
		est := newCounting()
		f := form.New(ctx, est, model.DefaultInputs(), form.WithLogger(logger.Nop()))

		Convey("Then the initial estimate has run once", func() {
			s := f.Snapshot()
			So(est.count(), ShouldEqual, 1)
			So(s.Revision, ShouldEqual, 1)
			So(s.Result.OK(), ShouldBeTrue)
			So(s.Result.Bedtime.String(), ShouldEqual, "23:00")
		})

		Convey("When the wake time changes", func() {
			s, changed := f.SetWakeUp(ctx, model.MustTimeOfDay(6, 0))

			Convey("Then exactly one estimate runs and the result is replaced", func() {
				So(changed, ShouldBeTrue)
				So(est.count(), ShouldEqual, 2)
				So(s.Revision, ShouldEqual, 2)
				So(s.Result.Bedtime.String(), ShouldEqual, "22:00")
			})
		})

		Convey("When sleep and coffee change one after another", func() {
			_, a := f.SetSleepHours(ctx, 7.5)
			s, b := f.SetCoffeeCups(ctx, 3)

			Convey("Then each change recalculates", func() {
				So(a, ShouldBeTrue)
				So(b, ShouldBeTrue)
				So(est.count(), ShouldEqual, 3)
				So(s.Inputs.SleepHours, ShouldEqual, 7.5)
				So(s.Inputs.CoffeeCups, ShouldEqual, 3)
				So(s.Result.Bedtime.String(), ShouldEqual, "23:30")
			})
		})

		Convey("When a field is set to its current value", func() {
			_, changed := f.SetSleepHours(ctx, model.DefaultSleepHours)

			Convey("Then nothing is recalculated", func() {
				So(changed, ShouldBeFalse)
				So(est.count(), ShouldEqual, 1)
				So(f.Snapshot().Revision, ShouldEqual, 1)
			})
		})

		Convey("When applying a multi-field change", func() {
			s, n := f.Apply(ctx, form.Change{
				WakeUp:     ptr(model.MustTimeOfDay(5, 30)),
				SleepHours: ptr(9.0),
				CoffeeCups: ptr(model.DefaultCoffeeCups),
			})

			Convey("Then each changed field runs one estimate in field order", func() {
				So(n, ShouldEqual, 2)
				So(est.count(), ShouldEqual, 3)
				So(est.calls[1].WakeUp.String(), ShouldEqual, "05:30")
				So(est.calls[1].SleepHours, ShouldEqual, model.DefaultSleepHours)
				So(est.calls[2].SleepHours, ShouldEqual, 9.0)
				So(s.Result.Bedtime.String(), ShouldEqual, "20:30")
			})
		})

		Convey("When applying an empty change", func() {
			c := form.Change{}
			_, n := f.Apply(ctx, c)

			Convey("Then nothing runs", func() {
				So(c.Empty(), ShouldBeTrue)
				So(n, ShouldEqual, 0)
				So(est.count(), ShouldEqual, 1)
			})
		})

		Convey("When many goroutines edit the same form", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					f.SetCoffeeCups(ctx, i%5+1)
				}(i)
			}
			wg.Wait()

			Convey("Then the revision matches the number of estimates", func() {
				So(f.Snapshot().Revision, ShouldEqual, uint64(est.count()))
			})
		})
	})

	Convey("Given a form with an observer", t, func() {
		ctx := context.Background()
		var seen []form.State
		f := form.New(ctx, newCounting(), model.DefaultInputs(),
			form.WithLogger(logger.Nop()),
			form.WithObserver(func(s form.State) { seen = append(seen, s) }),
		)

		f.SetCoffeeCups(ctx, 2)
		f.SetCoffeeCups(ctx, 2)

		Convey("Then it sees the initial state and every recalculation", func() {
			So(len(seen), ShouldEqual, 2)
			So(seen[0].Revision, ShouldEqual, 1)
			So(seen[1].Inputs.CoffeeCups, ShouldEqual, 2)
		})
	})
}
