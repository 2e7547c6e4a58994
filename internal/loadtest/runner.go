package loadtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/types"
	"github.com/okian/betterrest/pkg/logger"
)

// WorkerChannelMultiplier sizes the session channel per worker.
const WorkerChannelMultiplier = 2

// ErrVerification is returned when a session did not match its replay.
var ErrVerification = errors.New("load test verification failed")

// counters are the shared atomic tallies of a run.
type counters struct {
	opened, verified, sent, recalcs, dups, failed, mismatches, calcFails atomic.Int64
}

// Run executes the complete load test and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("loadtest")

	log.Info(ctx, "starting bedtime load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("forms", cfg.Forms),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.checkHealth(ctx); err != nil {
		return stats, err
	}

	plans := generatePlans(ctx, cfg)

	var c counters
	runSessions(ctx, cfg, client, plans, &c, log)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.FormsOpened = int(c.opened.Load())
	stats.FormsVerified = int(c.verified.Load())
	stats.ChangesSent = int(c.sent.Load())
	stats.Recalculations = int(c.recalcs.Load())
	stats.Duplicates = int(c.dups.Load())
	stats.Failed = int(c.failed.Load())
	stats.Mismatches = int(c.mismatches.Load())
	stats.CalculationFails = int(c.calcFails.Load())

	log.Info(ctx, "final statistics",
		logger.Int("formsOpened", stats.FormsOpened),
		logger.Int("formsVerified", stats.FormsVerified),
		logger.Int("changesSent", stats.ChangesSent),
		logger.Int("recalculations", stats.Recalculations),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("failed", stats.Failed),
		logger.Int("mismatches", stats.Mismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("changesPerSecond", stats.ChangesPerSecond()))

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load test interrupted: %w", err)
	}
	if stats.Failed > 0 || stats.Mismatches > 0 {
		return stats, fmt.Errorf("%w: %d failed, %d mismatched", ErrVerification, stats.Failed, stats.Mismatches)
	}
	return stats, nil
}

// runSessions feeds plans to cfg.Workers concurrent sessions.
func runSessions(ctx context.Context, cfg *Config, client *HTTPClient, plans []Plan, c *counters, log logger.Logger) {
	workers := max(1, min(cfg.Workers, len(plans)))
	planChan := make(chan Plan, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for plan := range planChan {
				if ctx.Err() != nil {
					continue
				}
				if err := runSession(ctx, client, plan, c); err != nil {
					c.failed.Add(1)
					log.Warn(ctx, "session failed", logger.Int("session", plan.Index), logger.Error(err))
				} else if cfg.Verbose {
					log.Info(ctx, "session verified", logger.Int("session", plan.Index))
				}
			}
		}()
	}

	go func() {
		defer close(planChan)
		for _, plan := range plans {
			select {
			case <-ctx.Done():
				return
			case planChan <- plan:
			}
		}
	}()

	wg.Wait()
}

// runSession opens a form, plays the plan, then checks the server's final
// state against the locally replayed inputs.
func runSession(ctx context.Context, client *HTTPClient, plan Plan, c *counters) error {
	state, err := client.openForm(ctx)
	if err != nil {
		return err
	}
	c.opened.Add(1)

	want := types.FromInputs(model.DefaultInputs())
	if state.Inputs != want || state.Revision != 1 {
		c.mismatches.Add(1)
		return fmt.Errorf("%w: form %s opened as %+v rev %d", ErrVerification, state.ID, state.Inputs, state.Revision)
	}
	revision := state.Revision

	for i, ch := range plan.Changes {
		got, err := client.patchForm(ctx, state.ID, ch)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		c.sent.Add(1)

		if err := checkChange(ch, got); err != nil {
			c.mismatches.Add(1)
			return fmt.Errorf("form %s change %d: %w", state.ID, i, err)
		}
		if got.Duplicate {
			c.dups.Add(1)
			continue
		}
		want = ch.apply(want)
		revision += uint64(*got.Recalculations)
		c.recalcs.Add(int64(*got.Recalculations))
	}

	final, err := client.getForm(ctx, state.ID)
	if err != nil {
		return err
	}
	if err := verifyFinal(final, want, revision); err != nil {
		c.mismatches.Add(1)
		return fmt.Errorf("form %s: %w", state.ID, err)
	}
	if final.Estimate.Error != nil {
		c.calcFails.Add(1)
	}
	c.verified.Add(1)

	return client.closeForm(ctx, state.ID)
}
