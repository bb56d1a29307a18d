package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
)

var clientsCmd = &cobra.Command{
	Use:     "clients",
	Short:   "Manage client accounts",
	GroupID: "campaign",
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a client account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug, _ := cmd.Flags().GetString("slug")
		industry, _ := cmd.Flags().GetString("industry")
		description, _ := cmd.Flags().GetString("description")
		primary, _ := cmd.Flags().GetString("primary-color")
		secondary, _ := cmd.Flags().GetString("secondary-color")

		c, err := api.CreateClient(context.Background(), &client.CreateClientRequest{
			Name:           args[0],
			Slug:           slug,
			Industry:       industry,
			Description:    description,
			PrimaryColor:   primary,
			SecondaryColor: secondary,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(c)
		} else {
			printClientTable(c)
		}
		return nil
	},
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List client accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := api.ListClients(context.Background(), search, limit, offset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Clients)
		} else {
			printClientListTable(resp.Clients, resp.Total)
		}
		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show <id-or-slug>",
	Short: "Show a client account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := api.GetClient(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(c)
		} else {
			printClientTable(c)
		}
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client account and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteClient(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("client %s deleted\n", args[0])
		return nil
	},
}

func init() {
	clientsCreateCmd.Flags().String("slug", "", "URL-safe identifier (derived from name when empty)")
	clientsCreateCmd.Flags().String("industry", "", "client industry")
	clientsCreateCmd.Flags().StringP("description", "d", "", "client description")
	clientsCreateCmd.Flags().String("primary-color", "", "brand primary color")
	clientsCreateCmd.Flags().String("secondary-color", "", "brand secondary color")

	clientsListCmd.Flags().StringP("search", "s", "", "filter by name or slug substring")
	clientsListCmd.Flags().Int("limit", 20, "maximum number of clients to return")
	clientsListCmd.Flags().Int("offset", 0, "offset for pagination")

	clientsCmd.AddCommand(clientsCreateCmd)
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)
}
