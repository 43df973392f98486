package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marssim",
		Short: "Mars settlement task scheduler",
		Long: `marssim runs the settlement task scheduling engine: every pulse the
facilities progress, then each worker picks an activity from the
settlement's scored candidates and performs it.

Examples:
  marssim run --ticks 1000
  marssim run --scenario configs/scenario.yaml --realtime 20
  marssim tasks schiaparelli --worker p-okafor
  marssim schedule --worker p-okafor
  marssim logs schiaparelli --level WARNING
  marssim config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default: ./config.yaml, ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewTasksCommand())
	rootCmd.AddCommand(NewScheduleCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
