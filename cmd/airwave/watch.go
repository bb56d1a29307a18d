package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/events"
)

func watchNATSURL() string {
	if s := os.Getenv("AIRWAVE_NATS_URL"); s != "" {
		return s
	}
	return activeRemoteNATSURL()
}

var watchCmd = &cobra.Command{
	Use:     "watch [topic]",
	Short:   "Tail pipeline events from NATS",
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	// No server connection needed, watch talks to NATS directly.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := "airwave.>"
		if len(args) == 1 {
			topic = args[0]
		}

		natsURL := watchNATSURL()
		if natsURL == "" {
			return fmt.Errorf("no NATS URL; set AIRWAVE_NATS_URL or configure a remote with --nats")
		}

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Printf("%s %s\n", time.Now().Format(time.RFC3339), string(msg))
			}
		}
	},
}
