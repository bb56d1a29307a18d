package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
)

var briefsCmd = &cobra.Command{
	Use:     "briefs",
	Short:   "Manage campaign briefs",
	GroupID: "campaign",
}

var briefsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a brief document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")
		title, _ := cmd.Flags().GetString("title")

		content, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		name := filepath.Base(args[0])
		docType := strings.TrimPrefix(filepath.Ext(name), ".")

		b, err := api.CreateBrief(context.Background(), &client.CreateBriefRequest{
			ClientID:     clientID,
			Title:        title,
			DocumentName: name,
			DocumentType: docType,
			RawContent:   string(content),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(b)
		} else {
			printBriefTable(b)
		}
		return nil
	},
}

var briefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List briefs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")
		status, _ := cmd.Flags().GetStringSlice("status")
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := api.ListBriefs(context.Background(), &client.ListBriefsRequest{
			ClientID: clientID,
			Status:   status,
			Search:   search,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Briefs)
		} else {
			printBriefListTable(resp.Briefs, resp.Total)
		}
		return nil
	},
}

var briefsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := api.GetBrief(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(b)
		} else {
			printBriefTable(b)
		}
		return nil
	},
}

var briefsWorkflowCmd = &cobra.Command{
	Use:   "workflow <id>",
	Short: "Show pipeline progress for a brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := api.GetBriefWorkflow(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(p)
		} else {
			printWorkflowTable(p)
		}
		return nil
	},
}

func init() {
	briefsUploadCmd.Flags().StringP("client", "c", "", "client ID the brief belongs to")
	briefsUploadCmd.Flags().StringP("title", "t", "", "brief title (defaults to the document name)")
	briefsUploadCmd.MarkFlagRequired("client")

	briefsListCmd.Flags().StringP("client", "c", "", "filter by client ID")
	briefsListCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	briefsListCmd.Flags().String("search", "", "filter by title substring")
	briefsListCmd.Flags().Int("limit", 20, "maximum number of briefs to return")
	briefsListCmd.Flags().Int("offset", 0, "offset for pagination")

	briefsCmd.AddCommand(briefsUploadCmd)
	briefsCmd.AddCommand(briefsListCmd)
	briefsCmd.AddCommand(briefsShowCmd)
	briefsCmd.AddCommand(briefsWorkflowCmd)
}
