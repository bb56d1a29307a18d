package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
	"github.com/airwavehq/airwave/internal/model"
)

// parseSlot converts a --slot value of the form "name=kind:opt1,opt2"
// into a matrix slot.
func parseSlot(s string) (model.MatrixSlot, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return model.MatrixSlot{}, fmt.Errorf("invalid slot %q: expected name=kind:options", s)
	}
	kind, opts, ok := strings.Cut(rest, ":")
	if !ok || opts == "" {
		return model.MatrixSlot{}, fmt.Errorf("invalid slot %q: expected name=kind:options", s)
	}

	slot := model.MatrixSlot{Name: name, Kind: model.SlotKind(kind)}
	for _, opt := range strings.Split(opts, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			slot.Options = append(slot.Options, opt)
		}
	}
	return slot, nil
}

var matricesCmd = &cobra.Command{
	Use:     "matrices",
	Short:   "Manage creative matrices",
	GroupID: "creative",
}

var matricesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a creative matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")
		briefID, _ := cmd.Flags().GetString("brief")
		slug, _ := cmd.Flags().GetString("slug")
		slotSpecs, _ := cmd.Flags().GetStringArray("slot")

		slots := make([]model.MatrixSlot, 0, len(slotSpecs))
		for _, spec := range slotSpecs {
			slot, err := parseSlot(spec)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			slots = append(slots, slot)
		}

		m, err := api.CreateMatrix(context.Background(), &client.CreateMatrixRequest{
			ClientID: clientID,
			BriefID:  briefID,
			Name:     args[0],
			Slug:     slug,
			Slots:    slots,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(m)
		} else {
			printMatrixTable(m)
		}
		return nil
	},
}

var matricesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List matrices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")

		resp, err := api.ListMatrices(context.Background(), clientID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Matrices)
		} else {
			printMatrixListTable(resp.Matrices, resp.Total)
		}
		return nil
	},
}

var matricesAssembleCmd = &cobra.Command{
	Use:   "assemble <id>",
	Short: "Expand a matrix into queued executions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, _ := cmd.Flags().GetString("platform")
		max, _ := cmd.Flags().GetInt("max")

		resp, err := api.AssembleMatrix(context.Background(), args[0], platform, max)
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

func init() {
	matricesCreateCmd.Flags().StringP("client", "c", "", "client ID the matrix belongs to")
	matricesCreateCmd.Flags().StringP("brief", "b", "", "brief ID the matrix was built from")
	matricesCreateCmd.Flags().String("slug", "", "URL-safe identifier (derived from name when empty)")
	matricesCreateCmd.Flags().StringArrayP("slot", "s", nil, "slot definition, name=kind:opt1,opt2 (repeatable)")
	matricesCreateCmd.MarkFlagRequired("client")
	matricesCreateCmd.MarkFlagRequired("slot")

	matricesListCmd.Flags().StringP("client", "c", "", "filter by client ID")

	matricesAssembleCmd.Flags().StringP("platform", "p", "", "target platform for the executions")
	matricesAssembleCmd.Flags().Int("max", 0, "cap on combinations (server default when 0)")

	matricesCmd.AddCommand(matricesCreateCmd)
	matricesCmd.AddCommand(matricesListCmd)
	matricesCmd.AddCommand(matricesAssembleCmd)
}
