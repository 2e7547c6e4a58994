// Package loadtest drives a running bedtime server with concurrent form
// sessions and verifies every session against a locally replayed copy.
package loadtest

import (
	"runtime"
	"time"

	"github.com/okian/betterrest/internal/domain/types"
)

// Default configuration constants.
const (
	DefaultForms          = 200
	DefaultChangesPerForm = 10
	DefaultReplayRatio    = 0.2
	DefaultTimeout        = 30 * time.Second
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Forms          int           // Number of form sessions
	ChangesPerForm int           // Changes sent per session
	ReplayRatio    float64       // Share of changes re-sent with the same change id
	Workers        int           // Number of concurrent sessions
	Timeout        time.Duration // HTTP request timeout
	Seed           uint64        // Random seed; 0 picks one
	Verbose        bool          // Log every session
}

// DefaultConfig returns a config for a local server.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:8080",
		Forms:          DefaultForms,
		ChangesPerForm: DefaultChangesPerForm,
		ReplayRatio:    DefaultReplayRatio,
		Workers:        runtime.NumCPU() * defaultWorkers,
		Timeout:        DefaultTimeout,
	}
}

// Change is one PATCH body.
type Change struct {
	ChangeID   string   `json:"change_id"`
	WakeUp     *string  `json:"wake_up,omitempty"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
	CoffeeCups *int     `json:"coffee_cups,omitempty"`
	Replay     bool     `json:"-"`
}

// apply returns in with the change's fields set.
func (c Change) apply(in types.Inputs) types.Inputs {
	if c.WakeUp != nil {
		in.WakeUp = *c.WakeUp
	}
	if c.SleepHours != nil {
		in.SleepHours = *c.SleepHours
	}
	if c.CoffeeCups != nil {
		in.CoffeeCups = *c.CoffeeCups
	}
	return in
}

// Plan is the scripted sequence of changes for one session.
type Plan struct {
	Index   int
	Changes []Change
}

// Stats holds test statistics.
type Stats struct {
	FormsOpened      int
	FormsVerified    int
	ChangesSent      int
	Recalculations   int
	Duplicates       int
	Failed           int
	Mismatches       int
	CalculationFails int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// ChangesPerSecond is the PATCH throughput of the run.
func (s *Stats) ChangesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.ChangesSent) / s.Duration.Seconds()
}
