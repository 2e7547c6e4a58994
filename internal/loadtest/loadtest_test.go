package loadtest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/betterrest/internal/adapters/http/api"
	service "github.com/okian/betterrest/internal/app"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/internal/domain/types"
	"github.com/okian/betterrest/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func newServer() (*httptest.Server, *service.Service) {
	svc := service.New(
		service.WithModelLoader(predictor.Static(predictor.Coefficients{Sleep: 3600}), "test"),
		service.WithLogger(logger.Nop()),
	)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func ptr[T any](v T) *T { return &v }

func TestRun(t *testing.T) {
	Convey("Given a running bedtime server", t, func() {
		srv, svc := newServer()
		defer srv.Close()
		defer svc.Stop()

		cfg := &Config{
			BaseURL:        srv.URL,
			Forms:          20,
			ChangesPerForm: 8,
			ReplayRatio:    0.3,
			Workers:        4,
			Timeout:        5 * time.Second,
			Seed:           42,
		}

		Convey("When the load test runs", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every session is verified and closed", func() {
				So(err, ShouldBeNil)
				So(stats.FormsOpened, ShouldEqual, 20)
				So(stats.FormsVerified, ShouldEqual, 20)
				So(stats.ChangesSent, ShouldEqual, 160)
				So(stats.Duplicates, ShouldBeGreaterThan, 0)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Mismatches, ShouldEqual, 0)
				So(stats.CalculationFails, ShouldEqual, 0)
				So(stats.Duration, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given no server", t, func() {
		srv, svc := newServer()
		svc.Stop()
		srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		cfg := DefaultConfig()
		cfg.BaseURL = srv.URL

		Convey("Then the health check fails", func() {
			_, err := Run(ctx, cfg)
			So(errors.Is(err, errServiceDown), ShouldBeTrue)
		})
	})
}

func TestGeneratePlans(t *testing.T) {
	Convey("Given a seeded config", t, func() {
		cfg := &Config{Forms: 5, ChangesPerForm: 30, ReplayRatio: 0.5, Seed: 7}
		a := generatePlans(context.Background(), cfg)
		b := generatePlans(context.Background(), cfg)

		Convey("Then plans are reproducible", func() {
			So(a, ShouldResemble, b)
			So(a, ShouldHaveLength, 5)
		})

		Convey("Then replays reuse the previous id and values stay in range", func() {
			for _, p := range a {
				So(p.Changes, ShouldHaveLength, 30)
				So(p.Changes[0].Replay, ShouldBeFalse)
				for i, c := range p.Changes {
					So(c.WakeUp != nil || c.SleepHours != nil || c.CoffeeCups != nil, ShouldBeTrue)
					if c.Replay {
						So(c.ChangeID, ShouldEqual, p.Changes[i-1].ChangeID)
						So(p.Changes[i-1].Replay, ShouldBeFalse)
					} else if i > 0 {
						So(c.ChangeID, ShouldNotEqual, p.Changes[i-1].ChangeID)
					}
					if c.SleepHours != nil {
						So(*c.SleepHours, ShouldBeBetweenOrEqual, 4.0, 12.0)
					}
					if c.CoffeeCups != nil {
						So(*c.CoffeeCups, ShouldBeBetweenOrEqual, 1, 5)
					}
					if c.WakeUp != nil {
						So(*c.WakeUp, ShouldHaveLength, 5)
					}
				}
			}
		})
	})
}

func TestVerification(t *testing.T) {
	Convey("Given server acknowledgements", t, func() {
		ok := types.Estimate{Bedtime: "23:00"}

		So(checkChange(Change{}, types.FormState{Recalculations: ptr(1), Estimate: ok}), ShouldBeNil)
		So(checkChange(Change{Replay: true}, types.FormState{Recalculations: ptr(0), Duplicate: true, Estimate: ok}), ShouldBeNil)

		Convey("Then protocol violations are reported", func() {
			So(errors.Is(checkChange(Change{}, types.FormState{Estimate: ok}), ErrVerification), ShouldBeTrue)
			So(errors.Is(checkChange(Change{Replay: true}, types.FormState{Recalculations: ptr(0), Estimate: ok}), ErrVerification), ShouldBeTrue)
			So(errors.Is(checkChange(Change{Replay: true}, types.FormState{Recalculations: ptr(1), Duplicate: true, Estimate: ok}), ErrVerification), ShouldBeTrue)
			So(errors.Is(checkChange(Change{}, types.FormState{Recalculations: ptr(1)}), ErrVerification), ShouldBeTrue)
		})

		Convey("Then final states are compared with the replay", func() {
			want := types.Inputs{WakeUp: "06:00", SleepHours: 7, CoffeeCups: 2}
			final := types.FormState{Inputs: want, Revision: 3, Estimate: types.Estimate{Error: &types.CalculationError{}}}
			So(verifyFinal(final, want, 3), ShouldBeNil)
			So(verifyFinal(final, want, 4), ShouldNotBeNil)
			So(verifyFinal(final, types.Inputs{WakeUp: "06:00", SleepHours: 7, CoffeeCups: 3}, 3), ShouldNotBeNil)
		})

		Convey("Then changes apply only the fields they carry", func() {
			in := types.Inputs{WakeUp: "07:00", SleepHours: 8, CoffeeCups: 1}
			So(Change{CoffeeCups: ptr(4)}.apply(in), ShouldResemble, types.Inputs{WakeUp: "07:00", SleepHours: 8, CoffeeCups: 4})
			So(Change{WakeUp: ptr("05:30"), SleepHours: ptr(6.5)}.apply(in), ShouldResemble, types.Inputs{WakeUp: "05:30", SleepHours: 6.5, CoffeeCups: 1})
		})
	})
}
