package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/pkg/logger"
)

// Which fields a random change touches.
const (
	caseWakeUp = iota
	caseSleepHours
	caseCoffeeCups
	caseAll
	fieldCases
)

const (
	hoursPerDay    = 24
	minutesPerHour = 60
)

var sleepSteps = int((model.MaxSleepHours-model.MinSleepHours)/model.SleepHoursStep) + 1

// generatePlans scripts cfg.Forms sessions. Replays reuse the previous
// change id with different values, which the server must ignore.
func generatePlans(ctx context.Context, cfg *Config) []Plan {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	logger.Get().Info(ctx, "generating form sessions",
		logger.Int("forms", cfg.Forms),
		logger.Int("changesPerForm", cfg.ChangesPerForm),
		logger.Any("seed", seed))

	plans := make([]Plan, cfg.Forms)
	for i := range plans {
		changes := make([]Change, 0, cfg.ChangesPerForm)
		for len(changes) < cfg.ChangesPerForm {
			c := randomChange(rng)
			if n := len(changes); n > 0 && !changes[n-1].Replay && rng.Float64() < cfg.ReplayRatio {
				c.ChangeID = changes[n-1].ChangeID
				c.Replay = true
			} else {
				c.ChangeID = uuid.NewString()
			}
			changes = append(changes, c)
		}
		plans[i] = Plan{Index: i, Changes: changes}
	}
	return plans
}

func randomChange(rng *rand.Rand) Change {
	var c Change
	field := rng.IntN(fieldCases)
	if field == caseWakeUp || field == caseAll {
		wake := fmt.Sprintf("%02d:%02d", rng.IntN(hoursPerDay), rng.IntN(minutesPerHour))
		c.WakeUp = &wake
	}
	if field == caseSleepHours || field == caseAll {
		sleep := model.MinSleepHours + float64(rng.IntN(sleepSteps))*model.SleepHoursStep
		c.SleepHours = &sleep
	}
	if field == caseCoffeeCups || field == caseAll {
		cups := model.MinCoffeeCups + rng.IntN(model.MaxCoffeeCups-model.MinCoffeeCups+1)
		c.CoffeeCups = &cups
	}
	return c
}
