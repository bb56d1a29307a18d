package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
)

var executionsCmd = &cobra.Command{
	Use:     "executions",
	Short:   "Inspect and render creative executions",
	GroupID: "creative",
}

var executionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List executions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		matrixID, _ := cmd.Flags().GetString("matrix")
		clientID, _ := cmd.Flags().GetString("client")
		status, _ := cmd.Flags().GetStringSlice("status")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := api.ListExecutions(context.Background(), &client.ListExecutionsRequest{
			MatrixID: matrixID,
			ClientID: clientID,
			Status:   status,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Executions)
		} else {
			printExecutionListTable(resp.Executions, resp.Total)
		}
		return nil
	},
}

var executionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := api.GetExecution(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(e)
		} else {
			printExecutionTable(e)
		}
		return nil
	},
}

var executionsRenderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Queue a pending execution for rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := api.RenderExecution(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(e)
		} else {
			printExecutionTable(e)
		}
		return nil
	},
}

func init() {
	executionsListCmd.Flags().StringP("matrix", "m", "", "filter by matrix ID")
	executionsListCmd.Flags().StringP("client", "c", "", "filter by client ID")
	executionsListCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	executionsListCmd.Flags().Int("limit", 20, "maximum number of executions to return")
	executionsListCmd.Flags().Int("offset", 0, "offset for pagination")

	executionsCmd.AddCommand(executionsListCmd)
	executionsCmd.AddCommand(executionsShowCmd)
	executionsCmd.AddCommand(executionsRenderCmd)
}
