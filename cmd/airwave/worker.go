package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/ai"
	"github.com/airwavehq/airwave/internal/config"
	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/render"
	"github.com/airwavehq/airwave/internal/store/postgres"
)

var workerCmd = &cobra.Command{
	Use:     "worker",
	Short:   "Start standalone render workers",
	GroupID: "system",
	// Override PersistentPreRunE so we don't construct an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.NATSURL == "" {
			return fmt.Errorf("AIRWAVE_NATS_URL is required for the worker")
		}
		if cfg.RenderURL == "" {
			return fmt.Errorf("AIRWAVE_RENDER_URL is required for the worker")
		}

		st, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		publisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			st.Close()
			return err
		}
		subscriber, err := events.NewNATSSubscriber(cfg.NATSURL)
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}

		worker := render.NewWorker(render.WorkerOptions{
			Store:        st,
			Subscriber:   subscriber,
			Publisher:    publisher,
			Renderer:     render.NewClient(cfg.RenderURL, cfg.RenderAPIKey),
			Usage:        ai.NewBudgetController(st, logger),
			TemplateID:   cfg.RenderTemplate,
			PollInterval: cfg.RenderPollInterval,
			Timeout:      cfg.RenderTimeout,
			Concurrency:  cfg.WorkerCount,
			Logger:       logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("render workers started",
			"count", cfg.WorkerCount,
			"render_url", cfg.RenderURL,
			"nats_url", cfg.NATSURL,
		)

		runErr := worker.Run(ctx)

		if err := subscriber.Close(); err != nil {
			logger.Error("error closing subscriber", "err", err)
		}
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return runErr
	},
}
