package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
)

var flowCmd = &cobra.Command{
	Use:     "flow",
	Short:   "Run generation steps of the campaign pipeline",
	GroupID: "creative",
}

var flowMotivationsCmd = &cobra.Command{
	Use:   "motivations <brief-id>",
	Short: "Generate motivations for a parsed brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		resp, err := api.GenerateMotivations(context.Background(), args[0], count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Motivations)
		} else {
			printMotivationListTable(resp.Motivations, resp.Total)
		}
		return nil
	},
}

var flowCopyCmd = &cobra.Command{
	Use:   "copy <brief-id>",
	Short: "Generate copy variants for selected motivations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		motivationIDs, _ := cmd.Flags().GetStringSlice("motivation")
		platforms, _ := cmd.Flags().GetStringSlice("platform")
		tone, _ := cmd.Flags().GetString("tone")
		count, _ := cmd.Flags().GetInt("count")

		resp, err := api.GenerateCopy(context.Background(), &client.GenerateCopyRequest{
			BriefID:       args[0],
			MotivationIDs: motivationIDs,
			Platforms:     platforms,
			Tone:          tone,
			Count:         count,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Variants)
		} else {
			printCopyListTable(resp.Variants, resp.Total)
		}
		return nil
	},
}

func init() {
	flowMotivationsCmd.Flags().IntP("count", "n", 0, "number of motivations to keep (server default when 0)")

	flowCopyCmd.Flags().StringSliceP("motivation", "m", nil, "motivation IDs to write copy for (repeatable)")
	flowCopyCmd.Flags().StringSliceP("platform", "p", nil, "target platforms (defaults to the brief's platforms)")
	flowCopyCmd.Flags().String("tone", "", "copy tone (e.g. urgent, friendly)")
	flowCopyCmd.Flags().IntP("count", "n", 0, "variants per motivation and platform (server default when 0)")
	flowCopyCmd.MarkFlagRequired("motivation")

	flowCmd.AddCommand(flowMotivationsCmd)
	flowCmd.AddCommand(flowCopyCmd)
}
