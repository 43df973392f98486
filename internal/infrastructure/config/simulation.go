package config

import "github.com/mars-sim/mars-sim-sub055/internal/domain/sim"

// SimulationConfig holds the pulse loop and engine tuning
type SimulationConfig struct {
	// Scenario is the YAML file describing the settlements to load
	Scenario string `mapstructure:"scenario"`

	// Pulse is the millisols simulated per tick
	Pulse float64 `mapstructure:"pulse" validate:"gt=0,lte=100"`

	// StartTime is the mission time, in millisols, of the first tick
	StartTime float64 `mapstructure:"start_time" validate:"gte=0"`

	// Seed feeds the shared random source; runs with equal seeds replay
	Seed uint64 `mapstructure:"seed"`

	// MaxIterations bounds activity switches per worker and pulse
	MaxIterations int `mapstructure:"max_iterations" validate:"min=1,max=100"`

	// TicksPerSecond paces the run in wall-clock time; 0 runs flat out
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"gte=0"`

	Tuning sim.Tuning `mapstructure:"tuning"`
}
