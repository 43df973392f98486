package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.Pulse == 0 {
		cfg.Simulation.Pulse = 1
	}
	if cfg.Simulation.MaxIterations == 0 {
		cfg.Simulation.MaxIterations = 8
	}
	if cfg.Simulation.Tuning == (sim.Tuning{}) {
		cfg.Simulation.Tuning = sim.DefaultTuning()
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" && cfg.Database.Type == "sqlite" {
		cfg.Database.Path = "marssim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "marssim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "marssim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// registerDefaults seeds viper with the keys that may legitimately be zero,
// so partial files and MARS_ variables still unmarshal onto them
func registerDefaults(v *viper.Viper) {
	t := sim.DefaultTuning()
	v.SetDefault("simulation.tuning.accident_chance", t.AccidentChance)
	v.SetDefault("simulation.tuning.walk_time", t.WalkTime)
	v.SetDefault("simulation.tuning.min_performance", t.MinPerformance)
	v.SetDefault("simulation.tuning.difficulty_margin", t.DifficultyMargin)
	v.SetDefault("simulation.tuning.toggle_cooldown", t.ToggleCooldown)
	v.SetDefault("simulation.scenario", "")
	v.SetDefault("simulation.pulse", 1.0)
	v.SetDefault("simulation.start_time", 0.0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.max_iterations", 8)
	v.SetDefault("simulation.ticks_per_second", 0.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.persist", false)
	v.SetDefault("logging.dedup_window", 10.0)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "marssim.db")
}
