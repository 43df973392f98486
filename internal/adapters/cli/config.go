package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect marssim configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (MARS_* prefix, e.g. MARS_SIMULATION_PULSE)
2. Config file (config.yaml)
3. Default values

Examples:
  marssim config show
  marssim config show --config configs/config.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				fmt.Printf("Warning: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			fmt.Println("marssim Configuration")
			fmt.Println("=====================")

			fmt.Println("\nSimulation:")
			fmt.Printf("  Scenario:         %s\n", orDash(cfg.Simulation.Scenario))
			fmt.Printf("  Pulse:            %.2f msol\n", cfg.Simulation.Pulse)
			fmt.Printf("  Start Time:       %.1f msol\n", cfg.Simulation.StartTime)
			fmt.Printf("  Seed:             %d\n", cfg.Simulation.Seed)
			fmt.Printf("  Max Iterations:   %d\n", cfg.Simulation.MaxIterations)
			fmt.Printf("  Pace:             %.1f pulses/s\n", cfg.Simulation.TicksPerSecond)

			t := cfg.Simulation.Tuning
			fmt.Println("\nTuning:")
			fmt.Printf("  Accident Chance:  %.4f\n", t.AccidentChance)
			fmt.Printf("  Walk Time:        %.1f msol\n", t.WalkTime)
			fmt.Printf("  Min Performance:  %.2f\n", t.MinPerformance)
			fmt.Printf("  Skill Margin:     %d\n", t.DifficultyMargin)
			fmt.Printf("  Toggle Cooldown:  %.1f msol\n", t.ToggleCooldown)

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
				fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Persist:          %t\n", cfg.Logging.Persist)
			fmt.Printf("  Dedup Window:     %.1f msol\n", cfg.Logging.DedupWindow)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:         %s\n", cfg.Metrics.Endpoint())
			}

			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
