package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/queries"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// NewScheduleCommand creates the schedule command
func NewScheduleCommand() *cobra.Command {
	var (
		settlementID string
		workerID     string
		since        float64
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show finished activities",
		Long: `Read the task schedule recorded by earlier runs.

Examples:
  marssim schedule --worker p-okafor
  marssim schedule --settlement schiaparelli --since 1000 --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.mediator.Send(app.context(cmd.Context()), &queries.GetScheduleQuery{
				SettlementID: settlementID,
				WorkerID:     workerID,
				Since:        shared.MarsTime(since),
				Limit:        limit,
			})
			if err != nil {
				return err
			}
			entries := resp.(*queries.GetScheduleResponse).Entries
			if len(entries) == 0 {
				fmt.Println("No finished activities recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tENDED\tWORKER\tACTIVITY\tPHASE\tMSOL\tDESCRIPTION")
			fmt.Fprintln(w, "-------\t-----\t------\t--------\t-----\t----\t-----------")
			// oldest first
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
					e.StartedAt, e.EndedAt, e.WorkerName, e.Activity, orDash(string(e.LastPhase)),
					e.TimeCompleted, truncate(e.Description, 48))
			}
			w.Flush()
			fmt.Printf("\nTotal: %d entries\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&settlementID, "settlement", "s", "", "Settlement ID")
	cmd.Flags().StringVarP(&workerID, "worker", "w", "", "Worker ID (takes precedence over --settlement)")
	cmd.Flags().Float64Var(&since, "since", 0, "Only activities ended at or after this mission time (millisols)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")

	return cmd
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
