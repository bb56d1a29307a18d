package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
)

var assetsCmd = &cobra.Command{
	Use:     "assets",
	Short:   "Manage uploaded media assets",
	GroupID: "creative",
}

var assetsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a media asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")
		name, _ := cmd.Flags().GetString("name")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		filename := filepath.Base(args[0])
		contentType := mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		a, err := api.UploadAsset(context.Background(), &client.UploadAssetRequest{
			ClientID:    clientID,
			Name:        name,
			Filename:    filename,
			ContentType: contentType,
			Tags:        tags,
			Data:        data,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(a)
		} else {
			printAssetTable(a)
		}
		return nil
	},
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")

		resp, err := api.ListAssets(context.Background(), clientID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Assets)
		} else {
			printAssetListTable(resp.Assets, resp.Total)
		}
		return nil
	},
}

var assetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an asset and its stored object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteAsset(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("asset %s deleted\n", args[0])
		return nil
	},
}

func init() {
	assetsUploadCmd.Flags().StringP("client", "c", "", "client ID the asset belongs to")
	assetsUploadCmd.Flags().String("name", "", "display name (defaults to the filename)")
	assetsUploadCmd.Flags().StringSliceP("tag", "t", nil, "tags (repeatable)")
	assetsUploadCmd.MarkFlagRequired("client")

	assetsListCmd.Flags().StringP("client", "c", "", "filter by client ID")

	assetsCmd.AddCommand(assetsUploadCmd)
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsDeleteCmd)
}
