package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/queries"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// NewLogsCommand creates the logs command
func NewLogsCommand() *cobra.Command {
	var (
		workerID string
		level    string
		since    float64
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "logs <settlement-id>",
		Short: "Show persisted activity logs",
		Long: `Retrieve a settlement's activity log from the database.
Logs are only persisted when logging.persist is enabled.

Examples:
  marssim logs schiaparelli
  marssim logs schiaparelli --worker p-moreau --limit 50
  marssim logs schiaparelli --level WARNING`,
		Args: cobra.ExactArgs(1),
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

			query := &queries.GetLogsQuery{
				SettlementID: args[0],
				WorkerID:     workerID,
				Level:        level,
				Limit:        limit,
			}
			if cmd.Flags().Changed("since") {
				t := shared.MarsTime(since)
				query.Since = &t
			}

			resp, err := app.mediator.Send(app.context(cmd.Context()), query)
			if err != nil {
				return err
			}
			entries := resp.(*queries.GetLogsResponse).Entries
			if len(entries) == 0 {
				fmt.Println("No logs found for settlement:", args[0])
				return nil
			}

			for _, e := range entries {
				fmt.Printf("[%s] [%s] %s%s\n", e.MarsTime, e.Level, workerPrefix(e.WorkerID), e.Message)
			}
			fmt.Printf("\nTotal: %d log entries\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&workerID, "worker", "w", "", "Only this worker's entries")
	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().Float64Var(&since, "since", 0, "Only entries at or after this mission time (millisols)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")

	return cmd
}

func workerPrefix(id string) string {
	if id == "" {
		return ""
	}
	return id + ": "
}
