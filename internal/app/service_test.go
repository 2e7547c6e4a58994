package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/betterrest/internal/adapters/repository"
	service "github.com/okian/betterrest/internal/app"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// hoursLoader yields a model that predicts exactly the requested hours.
var hoursLoader = predictor.Static(predictor.Coefficients{Sleep: 3600})

func startedService(opts ...service.Option) *service.Service {
	opts = append([]service.Option{service.WithModelLoader(hoursLoader, "test")}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["maxForms"], ShouldEqual, 10_000)
			So(stats["dedupeSize"], ShouldEqual, 50_000)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithFormTTL(time.Minute),
			service.WithMaxForms(10),
			service.WithDedupeSize(25_000),
			service.WithLogger(logger.Nop()),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["formTTL"], ShouldEqual, "1m0s")
			So(stats["maxForms"], ShouldEqual, 10)
			So(stats["dedupeSize"], ShouldEqual, 25_000)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithModelLoader(hoursLoader, "test"))
		ctx := context.Background()

		Convey("Then every operation reports ErrNotStarted", func() {
			_, err := svc.Estimate(ctx, model.DefaultInputs())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, _, err = svc.OpenForm(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.ChangeForm(ctx, "x", "", form.Change{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Form(ctx, "x")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.CloseForm(ctx, "x"), service.ErrNotStarted), ShouldBeTrue)
			So(svc.ModelInfo().Loaded, ShouldBeFalse)
		})
	})

	Convey("Given a started service", t, func() {
		svc := startedService()

		Convey("When starting it again", func() {
			err := svc.Start(context.Background())

			Convey("Then it is a no-op", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})
		})

		Convey("When stopping it", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Estimate(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When estimating for 07:00 and 8 hours", func() {
			res, err := svc.Estimate(ctx, model.DefaultInputs())

			Convey("Then the bedtime is 23:00", func() {
				So(err, ShouldBeNil)
				So(res.OK(), ShouldBeTrue)
				So(res.Bedtime.String(), ShouldEqual, "23:00")
			})
		})

		Convey("Then the model info reports the loaded coefficients", func() {
			info := svc.ModelInfo()
			So(info.Loaded, ShouldBeTrue)
			So(info.Source, ShouldEqual, "test")
			So(info.Coefficients.Sleep, ShouldEqual, 3600)
			So(svc.GetStats()["modelLoaded"], ShouldEqual, true)
		})
	})

	Convey("Given a service whose model fails to load", t, func() {
		broken := predictor.LoaderFunc(func(context.Context) (predictor.Coefficients, error) {
			return predictor.Coefficients{}, errors.New("artifact missing")
		})
		svc := service.New(service.WithModelLoader(broken, "broken.yaml"))
		err := svc.Start(context.Background())
		defer svc.Stop()

		Convey("Then start still succeeds", func() {
			So(err, ShouldBeNil)
		})

		Convey("And estimates carry the calculation error", func() {
			res, err := svc.Estimate(context.Background(), model.DefaultInputs())
			So(err, ShouldBeNil)
			So(res.OK(), ShouldBeFalse)
			So(res.Err.Message, ShouldEqual, "Sorry, there was a problem calculating your bedtime.")
		})

		Convey("And the model info explains the failure", func() {
			info := svc.ModelInfo()
			So(info.Loaded, ShouldBeFalse)
			So(info.Error, ShouldContainSubstring, "artifact missing")
			So(info.Coefficients, ShouldBeNil)
		})
	})
}

func TestService_Forms(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When opening a form", func() {
			id, state, err := svc.OpenForm(ctx)

			Convey("Then it holds the default inputs and the initial estimate", func() {
				So(err, ShouldBeNil)
				So(id, ShouldNotBeEmpty)
				So(state.Inputs, ShouldResemble, model.DefaultInputs())
				So(state.Revision, ShouldEqual, 1)
				So(state.Result.Bedtime.String(), ShouldEqual, "23:00")
				So(svc.GetStats()["openForms"], ShouldEqual, 1)
			})

			Convey("And changing it", func() {
				res, err := svc.ChangeForm(ctx, id, "c1", form.Change{WakeUp: ptr(model.MustTimeOfDay(6, 0))})

				Convey("Then one recalculation runs", func() {
					So(err, ShouldBeNil)
					So(res.Duplicate, ShouldBeFalse)
					So(res.Recalculations, ShouldEqual, 1)
					So(res.State.Result.Bedtime.String(), ShouldEqual, "22:00")
				})

				Convey("And replaying the same change id", func() {
					again, err := svc.ChangeForm(ctx, id, "c1", form.Change{WakeUp: ptr(model.MustTimeOfDay(5, 0))})

					Convey("Then it is reported as a duplicate and not applied", func() {
						So(err, ShouldBeNil)
						So(again.Duplicate, ShouldBeTrue)
						So(again.Recalculations, ShouldEqual, 0)
						So(again.State.Inputs.WakeUp.String(), ShouldEqual, "06:00")
						So(again.State.Revision, ShouldEqual, 2)
					})
				})
			})

			Convey("And reading it back", func() {
				got, err := svc.Form(ctx, id)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, state)
			})

			Convey("And closing it", func() {
				So(svc.CloseForm(ctx, id), ShouldBeNil)
				_, err := svc.Form(ctx, id)
				So(errors.Is(err, repository.ErrFormNotFound), ShouldBeTrue)
			})
		})

		Convey("When changing an unknown form", func() {
			_, err := svc.ChangeForm(ctx, "nope", "c1", form.Change{CoffeeCups: ptr(2)})

			Convey("Then ErrFormNotFound is returned", func() {
				So(errors.Is(err, repository.ErrFormNotFound), ShouldBeTrue)
				So(svc.GetStats()["recordedChanges"], ShouldEqual, int64(0))
			})
		})
	})
}
