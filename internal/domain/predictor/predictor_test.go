package predictor_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/okian/betterrest/internal/domain/predictor"
	. "github.com/smartystreets/goconvey/convey"
)

var testCoefficients = predictor.Coefficients{Wake: 0.01, Sleep: 3600, Coffee: 300, Bias: -120}

func TestLinear_Predict(t *testing.T) {
	Convey("Given a predictor with a loaded coefficient set", t, func() {
		ctx := context.Background()
		p := predictor.New(ctx, predictor.Static(testCoefficients), predictor.WithSource("test"))

		So(p.Ready(), ShouldBeTrue)
		So(p.Err(), ShouldBeNil)
		So(p.Source(), ShouldEqual, "test")

		Convey("When predicting for 07:00, 8 hours, 1 cup", func() {
			got, err := p.Predict(ctx, predictor.Features{WakeSeconds: 25200, SleepHours: 8, CoffeeCups: 1})

			Convey("Then it evaluates the linear formula", func() {
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 0.01*25200+3600*8+300*1-120, 1e-9)
			})
		})

		Convey("When predicting the same features twice", func() {
			f := predictor.Features{WakeSeconds: 86340, SleepHours: 12, CoffeeCups: 5}
			a, _ := p.Predict(ctx, f)
			b, _ := p.Predict(ctx, f)

			Convey("Then the results are bit-for-bit identical", func() {
				So(math.Float64bits(a), ShouldEqual, math.Float64bits(b))
			})
		})

		Convey("When predicting out-of-range features", func() {
			got, err := p.Predict(ctx, predictor.Features{WakeSeconds: -1, SleepHours: 100, CoffeeCups: 0})

			Convey("Then it still evaluates without error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 0.01*-1+3600*100-120, 1e-9)
			})
		})

		Convey("When predicting concurrently", func() {
			var wg sync.WaitGroup
			results := make([]float64, 32)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = p.Predict(ctx, predictor.Features{WakeSeconds: 25200, SleepHours: 8, CoffeeCups: 1})
				}(i)
			}
			wg.Wait()

			Convey("Then every goroutine sees the same value", func() {
				for _, r := range results {
					So(r, ShouldEqual, results[0])
				}
			})
		})

		Convey("When reading the coefficients back", func() {
			c, err := p.Coefficients()
			So(err, ShouldBeNil)
			So(c, ShouldResemble, testCoefficients)
		})
	})

	Convey("Given a loader that fails", t, func() {
		ctx := context.Background()
		calls := 0
		loader := predictor.LoaderFunc(func(context.Context) (predictor.Coefficients, error) {
			calls++
			return predictor.Coefficients{}, errors.New("artifact missing")
		})
		p := predictor.New(ctx, loader)

		Convey("Then the loader ran exactly once", func() {
			_, _ = p.Predict(ctx, predictor.Features{})
			_, _ = p.Predict(ctx, predictor.Features{})
			So(calls, ShouldEqual, 1)
		})

		Convey("Then every prediction reports ErrModelUnavailable", func() {
			_, err := p.Predict(ctx, predictor.Features{WakeSeconds: 25200, SleepHours: 8, CoffeeCups: 1})
			So(errors.Is(err, predictor.ErrModelUnavailable), ShouldBeTrue)
			So(p.Ready(), ShouldBeFalse)
			_, err = p.Coefficients()
			So(errors.Is(err, predictor.ErrModelUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a nil loader", t, func() {
		p := predictor.New(context.Background(), nil)
		_, err := p.Predict(context.Background(), predictor.Features{})
		So(errors.Is(err, predictor.ErrModelUnavailable), ShouldBeTrue)
	})

	Convey("Given non-finite coefficients", t, func() {
		p := predictor.New(context.Background(), predictor.Static(predictor.Coefficients{Sleep: math.NaN()}))
		_, err := p.Predict(context.Background(), predictor.Features{})

		Convey("Then the model is unavailable", func() {
			So(errors.Is(err, predictor.ErrModelUnavailable), ShouldBeTrue)
			So(errors.Is(err, predictor.ErrInvalidCoefficients), ShouldBeTrue)
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given pure hour-to-second weights", t, func() {
		c := predictor.Coefficients{Sleep: 3600}

		Convey("Then 8 hours predicts 28800 seconds", func() {
			So(predictor.Evaluate(c, predictor.Features{WakeSeconds: 25200, SleepHours: 8, CoffeeCups: 3}), ShouldEqual, 28800)
		})
	})
}
