// Package sim bundles the collaborators every activity and candidate
// generator needs from the running simulation: clock, sun, randomness and
// tuning constants. It replaces global lookups so that the scheduling engine
// can be driven deterministically from tests.
package sim

import (
	"math/rand/v2"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// Tuning holds the numeric knobs shared by the engine
type Tuning struct {
	// AccidentChance is the base probability of an accident per millisol worked
	AccidentChance float64 `mapstructure:"accident_chance" validate:"gte=0,lte=1"`

	// WalkTime is the millisols needed to cross into another building
	WalkTime float64 `mapstructure:"walk_time" validate:"gte=0"`

	// MinPerformance is the rating below which a worker is incapacitated
	MinPerformance float64 `mapstructure:"min_performance" validate:"gte=0,lte=1"`

	// DifficultyMargin is how many levels above the best available skill a
	// running manufacture process may require before it is cancelled
	DifficultyMargin int `mapstructure:"difficulty_margin" validate:"gte=0"`

	// ToggleCooldown keeps a freshly toggled resource process from being
	// proposed again for this many millisols
	ToggleCooldown float64 `mapstructure:"toggle_cooldown" validate:"gte=0"`
}

// DefaultTuning returns the stock values
func DefaultTuning() Tuning {
	return Tuning{
		AccidentChance:   0.003,
		WalkTime:         5,
		MinPerformance:   0.1,
		DifficultyMargin: 2,
		ToggleCooldown:   50,
	}
}

// Env is the simulation context passed to generators and activities
type Env struct {
	Clock  shared.SimClock
	Solar  shared.SolarModel
	Rand   *rand.Rand
	Tuning Tuning
}

// NewEnv creates an environment; a nil solar model falls back to the simple
// day/night model driven by the same clock.
func NewEnv(clock shared.SimClock, solar shared.SolarModel, rng *rand.Rand, tuning Tuning) *Env {
	if solar == nil {
		solar = shared.NewSimpleSolarModel(clock)
	}
	if rng == nil {
		rng = shared.NewRand(0)
	}
	return &Env{Clock: clock, Solar: solar, Rand: rng, Tuning: tuning}
}

// Now returns the current mission time
func (e *Env) Now() shared.MarsTime {
	return e.Clock.Now()
}
