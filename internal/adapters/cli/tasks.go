package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/commands"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/queries"
)

// NewTasksCommand creates the tasks command
func NewTasksCommand() *cobra.Command {
	var (
		workerID string
		warmup   int
		ledger   bool
	)

	cmd := &cobra.Command{
		Use:   "tasks <settlement-id>",
		Short: "List the settlement's task candidates",
		Long: `Show the candidates the meta tasks currently propose for a settlement.

With --worker the candidates are scored for that worker and listed best
first; --ledger prints every modifier behind each score.

Examples:
  marssim tasks schiaparelli
  marssim tasks schiaparelli --worker p-lindqvist --ledger
  marssim tasks schiaparelli --warmup 200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, appOptions{loadScenario: true})
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := app.context(cmd.Context())

			if warmup > 0 {
				if _, err := app.mediator.Send(ctx, &commands.RunSimulationCommand{Ticks: warmup}); err != nil {
					return err
				}
			}

			resp, err := app.mediator.Send(ctx, &queries.ListCandidatesQuery{SettlementID: args[0], WorkerID: workerID})
			if err != nil {
				return err
			}
			result := resp.(*queries.ListCandidatesResponse)

			if len(result.Candidates) == 0 {
				fmt.Printf("No candidates in %s at %s\n", result.Settlement, app.clock.Now())
				return nil
			}

			fmt.Printf("%s at %s\n\n", result.Settlement, app.clock.Now())
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if workerID == "" {
				fmt.Fprintln(w, "META\tTASK\tBUILDING\tDEMAND\tBASE")
				fmt.Fprintln(w, "----\t----\t--------\t------\t----")
				for _, c := range result.Candidates {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n", c.Meta, c.Name, orDash(c.Building), c.Demand, c.Base)
				}
			} else {
				fmt.Fprintln(w, "META\tTASK\tBUILDING\tBASE\tSCORE")
				fmt.Fprintln(w, "----\t----\t--------\t----\t-----")
				for _, c := range result.Candidates {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\n", c.Meta, c.Name, orDash(c.Building), c.Base, c.Score)
					if ledger {
						fmt.Fprintf(w, "\t  %s\t\t\t\n", c.Ledger)
					}
				}
			}
			w.Flush()
			fmt.Printf("\nTotal: %d candidates\n", len(result.Candidates))
			return nil
		},
	}

	cmd.Flags().StringVarP(&workerID, "worker", "w", "", "Score the candidates for this worker")
	cmd.Flags().IntVar(&warmup, "warmup", 0, "Run this many pulses before listing")
	cmd.Flags().BoolVar(&ledger, "ledger", false, "Show the score ledger of each candidate")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
