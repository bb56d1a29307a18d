package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/client"
	"github.com/airwavehq/airwave/internal/ui"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	api client.AirwaveClient
)

func defaultServer() string {
	if s := os.Getenv("AIRWAVE_SERVER"); s != "" {
		return s
	}
	if url := activeRemoteURL(); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("AIRWAVE_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "airwave",
	Short: "CLI client for the airwave service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		api = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if api != nil {
			api.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.SetHelpFunc(colorizedHelpFunc())
	rootCmd.AddGroup(
		&cobra.Group{ID: "campaign", Title: "Campaign:"},
		&cobra.Group{ID: "creative", Title: "Creative:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(briefsCmd)
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(motivationsCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(matricesCmd)
	rootCmd.AddCommand(executionsCmd)
	rootCmd.AddCommand(socialCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
