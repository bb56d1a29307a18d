package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/airwavehq/airwave/internal/ai"
	"github.com/airwavehq/airwave/internal/assets"
	"github.com/airwavehq/airwave/internal/config"
	"github.com/airwavehq/airwave/internal/events"
	"github.com/airwavehq/airwave/internal/render"
	"github.com/airwavehq/airwave/internal/server"
	"github.com/airwavehq/airwave/internal/social"
	"github.com/airwavehq/airwave/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the airwave HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't construct an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		st, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (AIRWAVE_NATS_URL not set)")
		}

		budget := ai.NewBudgetController(st, logger)

		// Pick the generator.
		var generator ai.Generator
		if cfg.GenAIAPIKey != "" {
			gen, err := ai.NewGeminiGenerator(context.Background(), cfg.GenAIAPIKey, cfg.GenAIModel, budget, logger)
			if err != nil {
				publisher.Close()
				st.Close()
				return err
			}
			generator = gen
			logger.Info("generation enabled", "model", cfg.GenAIModel)
		} else {
			generator = ai.NewTemplateGenerator()
			logger.Info("generation using built-in templates (AIRWAVE_GENAI_API_KEY not set)")
		}

		// Asset storage is optional; uploads 503 without it.
		var storage assets.Storage
		if cfg.AssetBucket != "" {
			s3, err := assets.NewS3Storage(context.Background(), cfg.AssetBucket, cfg.AssetRegion, cfg.AssetEndpoint, cfg.AssetURLBase)
			if err != nil {
				publisher.Close()
				st.Close()
				return err
			}
			storage = s3
			logger.Info("asset storage enabled", "bucket", cfg.AssetBucket)
		} else {
			logger.Info("asset uploads disabled (AIRWAVE_ASSET_BUCKET not set)")
		}

		// Register social platforms with configured tokens.
		var platforms []social.Platform
		if cfg.FacebookToken != "" {
			platforms = append(platforms, social.NewFacebook(cfg.FacebookToken))
		}
		if cfg.TwitterToken != "" {
			platforms = append(platforms, social.NewTwitter(cfg.TwitterToken))
		}
		if cfg.LinkedInToken != "" {
			platforms = append(platforms, social.NewLinkedIn(cfg.LinkedInToken))
		}
		registry := social.NewRegistry(platforms...)
		if len(platforms) > 0 {
			logger.Info("social publishing enabled", "platforms", registry.Names())
		}

		// Create server components.
		airwaveServer := server.NewAirwaveServer(st, publisher, server.Options{
			Generator:      generator,
			Budget:         budget,
			Storage:        storage,
			Social:         registry,
			MaxUploadBytes: cfg.MaxUploadBytes,
		})

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: airwaveServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start in-process render workers when the render API and NATS
		// are both configured.
		var workerCancel context.CancelFunc
		if cfg.RenderURL != "" && cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create render subscriber", "err", err)
			} else {
				worker := render.NewWorker(render.WorkerOptions{
					Store:        st,
					Subscriber:   sub,
					Publisher:    publisher,
					Renderer:     render.NewClient(cfg.RenderURL, cfg.RenderAPIKey),
					Usage:        budget,
					TemplateID:   cfg.RenderTemplate,
					PollInterval: cfg.RenderPollInterval,
					Timeout:      cfg.RenderTimeout,
					Concurrency:  cfg.WorkerCount,
					Logger:       logger,
				})
				var workerCtx context.Context
				workerCtx, workerCancel = context.WithCancel(context.Background())
				go func() {
					if err := worker.Run(workerCtx); err != nil {
						logger.Error("render worker error", "err", err)
					}
					sub.Close()
				}()
				logger.Info("render workers started", "count", cfg.WorkerCount)
			}
		}

		logger.Info("airwave server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if workerCancel != nil {
			workerCancel()
			logger.Info("render workers stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
