package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/betterrest/internal/adapters/artifact"
	service "github.com/okian/betterrest/internal/app"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by the embedded model artifact", t, func() {
		svc := service.New(
			service.WithModelLoader(artifact.Retrying(artifact.Embedded(), 3, time.Millisecond, nil), artifact.EmbeddedSource),
			service.WithMaxForms(1000),
			service.WithDedupeSize(500),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When estimating the default inputs", func() {
			res, err := svc.Estimate(ctx, model.DefaultInputs())

			Convey("Then the shipped model recommends 22:31", func() {
				So(err, ShouldBeNil)
				So(res.OK(), ShouldBeTrue)
				So(res.Bedtime.String(), ShouldEqual, "22:31")
				So(svc.ModelInfo().Source, ShouldEqual, artifact.EmbeddedSource)
			})
		})

		Convey("When many clients edit their own forms concurrently", func() {
			const clients = 20
			var wg sync.WaitGroup
			errs := make(chan error, clients)
			ids := make([]string, clients)

			for i := 0; i < clients; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id, _, err := svc.OpenForm(ctx)
					if err != nil {
						errs <- err
						return
					}
					ids[i] = id
					for cups := model.MinCoffeeCups; cups <= model.MaxCoffeeCups; cups++ {
						n := cups
						if _, err := svc.ChangeForm(ctx, id, fmt.Sprintf("cups-%d", n), form.Change{CoffeeCups: &n}); err != nil {
							errs <- err
							return
						}
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then every form ends on five cups with its own revision count", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				for _, id := range ids {
					state, err := svc.Form(ctx, id)
					So(err, ShouldBeNil)
					So(state.Inputs.CoffeeCups, ShouldEqual, model.MaxCoffeeCups)
					// initial + cups 2..5; cups=1 equals the default
					So(state.Revision, ShouldEqual, 5)
					So(state.Result.OK(), ShouldBeTrue)
				}
				So(svc.GetStats()["openForms"], ShouldEqual, clients)
			})
		})
	})
}
