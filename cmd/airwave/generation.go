package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var motivationsCmd = &cobra.Command{
	Use:     "motivations",
	Short:   "Inspect and select generated motivations",
	GroupID: "creative",
}

var motivationsListCmd = &cobra.Command{
	Use:   "list <brief-id>",
	Short: "List motivations for a brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.ListMotivations(context.Background(), args[0])
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

var motivationsSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select a motivation for copy generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		off, _ := cmd.Flags().GetBool("off")

		if err := api.SelectMotivation(context.Background(), args[0], !off); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if off {
			fmt.Printf("motivation %s deselected\n", args[0])
		} else {
			fmt.Printf("motivation %s selected\n", args[0])
		}
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:     "copy",
	Short:   "Inspect and select generated copy variants",
	GroupID: "creative",
}

var copyListCmd = &cobra.Command{
	Use:   "list <brief-id>",
	Short: "List copy variants for a brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		motivationID, _ := cmd.Flags().GetString("motivation")

		resp, err := api.ListCopy(context.Background(), args[0], motivationID)
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

var copySelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select a copy variant for matrix slots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		off, _ := cmd.Flags().GetBool("off")

		if err := api.SelectCopy(context.Background(), args[0], !off); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if off {
			fmt.Printf("variant %s deselected\n", args[0])
		} else {
			fmt.Printf("variant %s selected\n", args[0])
		}
		return nil
	},
}

func init() {
	motivationsSelectCmd.Flags().Bool("off", false, "deselect instead of select")
	copySelectCmd.Flags().Bool("off", false, "deselect instead of select")
	copyListCmd.Flags().StringP("motivation", "m", "", "filter by motivation ID")

	motivationsCmd.AddCommand(motivationsListCmd)
	motivationsCmd.AddCommand(motivationsSelectCmd)
	copyCmd.AddCommand(copyListCmd)
	copyCmd.AddCommand(copySelectCmd)
}
