package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/commands"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		ticks        int
		realtime     float64
		scenarioPath string
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation for a number of pulses",
		Long: `Load the scenario and advance the simulation pulse by pulse.

Each pulse the facilities progress first, then every worker continues or
picks an activity. Finished activities are written to the task schedule.
Interrupt with Ctrl-C to stop after the current pulse.

Examples:
  marssim run --ticks 1000
  marssim run --ticks 500 --realtime 10
  marssim run --scenario configs/scenario.yaml --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if scenarioPath != "" {
				cfg.Simulation.Scenario = scenarioPath
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if cmd.Flags().Changed("realtime") {
				cfg.Simulation.TicksPerSecond = realtime
			}

			app, err := newApplication(cfg, appOptions{loadScenario: true, serveMetrics: true})
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(app.context(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			resp, err := app.mediator.Send(ctx, &commands.RunSimulationCommand{
				Ticks:          ticks,
				TicksPerSecond: cfg.Simulation.TicksPerSecond,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			result, ok := resp.(*commands.RunSimulationResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			fmt.Printf("Ran %d pulses (%d total), mission time %s\n\n", result.TicksRun, result.TotalTicks, result.MarsTime)
			app.printWorkers()
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 1000, "Number of pulses to run")
	cmd.Flags().Float64Var(&realtime, "realtime", 0, "Pace the run at this many pulses per second (0 = flat out)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (overrides simulation.scenario)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (overrides simulation.seed)")

	return cmd
}

func (a *application) printWorkers() {
	for _, s := range a.runner.Settlements() {
		fmt.Printf("%s (%s)\n", s.Name(), s.ID())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WORKER\tNAME\tBUILDING\tACTIVITY")
		fmt.Fprintln(w, "------\t----\t--------\t--------")
		for _, wk := range s.Workers() {
			current := a.runner.CurrentActivity(s.ID(), wk.ID())
			if current == "" {
				current = "(idle)"
			}
			building := wk.BuildingID()
			if building == "" {
				building = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wk.ID(), wk.Name(), building, current)
		}
		w.Flush()
		fmt.Println()
	}
}
