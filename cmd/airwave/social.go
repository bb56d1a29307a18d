package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
)

var socialCmd = &cobra.Command{
	Use:     "social",
	Short:   "Publish rendered creatives to social platforms",
	GroupID: "creative",
}

var socialPublishCmd = &cobra.Command{
	Use:   "publish <execution-id>",
	Short: "Publish a completed execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platforms, _ := cmd.Flags().GetStringSlice("platform")
		message, _ := cmd.Flags().GetString("message")
		linkURL, _ := cmd.Flags().GetString("link")

		resp, err := api.PublishSocial(context.Background(), &client.PublishSocialRequest{
			ExecutionID: args[0],
			Platforms:   platforms,
			Message:     message,
			LinkURL:     linkURL,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		for _, pub := range resp.Publications {
			if pub.PostURL != "" {
				fmt.Printf("%s: %s (%s)\n", pub.Platform, pub.PostID, pub.PostURL)
			} else {
				fmt.Printf("%s: %s\n", pub.Platform, pub.PostID)
			}
		}
		return nil
	},
}

func init() {
	socialPublishCmd.Flags().StringSliceP("platform", "p", nil, "platforms to publish to (repeatable)")
	socialPublishCmd.Flags().StringP("message", "m", "", "post message (defaults to the selected copy)")
	socialPublishCmd.Flags().String("link", "", "link URL attached to the post")
	socialPublishCmd.MarkFlagRequired("platform")

	socialCmd.AddCommand(socialPublishCmd)
}
