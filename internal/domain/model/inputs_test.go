package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/betterrest/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestInputs(t *testing.T) {
	convey.Convey("Given the default inputs", t, func() {
		in := model.DefaultInputs()

		convey.Convey("Then they are 07:00, 8 hours and 1 cup", func() {
			convey.So(in.WakeUp.String(), convey.ShouldEqual, "07:00")
			convey.So(in.SleepHours, convey.ShouldEqual, 8.0)
			convey.So(in.CoffeeCups, convey.ShouldEqual, 1)
			convey.So(in.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given boundary inputs", t, func() {
		for _, h := range []float64{4.0, 4.25, 11.75, 12.0} {
			convey.So(model.ValidateSleepHours(h), convey.ShouldBeNil)
		}
		for n := 1; n <= 5; n++ {
			convey.So(model.ValidateCoffeeCups(n), convey.ShouldBeNil)
		}
	})

	convey.Convey("Given out-of-domain inputs", t, func() {
		for _, h := range []float64{3.99, 12.01, math.NaN(), math.Inf(1)} {
			convey.So(errors.Is(model.ValidateSleepHours(h), model.ErrSleepOutOfRange), convey.ShouldBeTrue)
		}
		for _, n := range []int{0, 6, -1} {
			convey.So(errors.Is(model.ValidateCoffeeCups(n), model.ErrCoffeeOutOfRange), convey.ShouldBeTrue)
		}

		in := model.DefaultInputs()
		in.WakeUp = model.TimeOfDay{Hour: 25}
		convey.So(errors.Is(in.Validate(), model.ErrInvalidTimeOfDay), convey.ShouldBeTrue)
	})
}
