package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ShoheiSaito0429/slide-converter/internal/api"
	"github.com/ShoheiSaito0429/slide-converter/internal/config"
	"github.com/ShoheiSaito0429/slide-converter/vision"
)

func main() {
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           logLevel(),
	})
	log := slog.New(handler)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := api.NewStore(cfg.OutputDir, cfg.OutputTTL)
	if err != nil {
		log.Error("failed to initialize document store", "error", err)
		os.Exit(1)
	}
	go store.Run(ctx)

	newAnalyzer := func(apiKey string) api.Analyzer {
		return vision.NewClient(apiKey, cfg.AnthropicModel)
	}

	srv := api.NewServer(store, newAnalyzer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	log.Info("starting slide converter",
		"port", cfg.Port,
		"layout", cfg.SlideLayout,
		"demo_only", cfg.AnthropicAPIKey == "",
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func logLevel() charmlog.Level {
	if os.Getenv("DEBUG") != "" {
		return charmlog.DebugLevel
	}
	return charmlog.InfoLevel
}
