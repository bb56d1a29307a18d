package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:     "usage",
	Short:   "Show per-service spend against monthly budgets",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := api.UsageSummary(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(summaries)
		} else {
			printUsageTable(summaries)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show entity and execution counts",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := api.Stats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(stats)
		} else {
			printStatsTable(stats)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server health",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := api.Health(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(status)
		return nil
	},
}
