package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/DinnerClub/internal/api"
	"github.com/MikeSquared-Agency/DinnerClub/internal/config"
	"github.com/MikeSquared-Agency/DinnerClub/internal/events"
	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
	"github.com/MikeSquared-Agency/DinnerClub/internal/report"
	"github.com/MikeSquared-Agency/DinnerClub/internal/secrets"
	"github.com/MikeSquared-Agency/DinnerClub/internal/source"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	printReport := flag.Bool("print", false, "print the report to stdout and exit")
	exportPath := flag.String("export", "", "write the filtered responses as CSV to this path and exit")
	restaurant := flag.String("restaurant", ranking.All, "restaurant filter for -print and -export")
	respondent := flag.String("respondent", ranking.All, "respondent filter for -print and -export")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	weights := cfg.Scoring.Categories
	if weights.Balanced() {
		logger.Info("category weights loaded", "categories", len(weights), "sum", weights.Sum())
	} else {
		logger.Warn("category weights do not sum to 1", "sum", weights.Sum())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Secrets
	provider, err := secrets.New(cfg.Secrets.Provider, cfg.Secrets.Dir, cfg.Secrets.EnvPrefix)
	if err != nil {
		logger.Error("failed to configure secrets", "error", err)
		os.Exit(1)
	}

	// Source
	src, err := source.New(ctx, cfg.Source, provider)
	if err != nil {
		logger.Error("failed to configure source", "kind", cfg.Source.Kind, "error", err)
		os.Exit(1)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	logger.Info("source configured", "kind", src.Name())

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event bus, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to event bus")
		}
	}

	normalizer := ranking.NewNormalizer(cfg.Scoring.Aliases, weights.Names(),
		ranking.WithFuzzyDistance(cfg.Scoring.FuzzyDistance))
	svc := report.NewService(src, normalizer, weights, report.Options{
		Timeout:         cfg.SourceTimeout(),
		ExcludeUnscored: cfg.Scoring.ExcludeUnscored,
	}, eventsClient, logger)

	filter := ranking.Filter{Restaurant: *restaurant, Respondent: *respondent}
	if *printReport || *exportPath != "" {
		if err := runOnce(ctx, svc, filter, *printReport, *exportPath, logger); err != nil {
			logger.Error("report failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// API server
	router := api.NewRouter(svc, api.RouterConfig{
		AccessToken:        cfg.Server.AccessToken,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func runOnce(ctx context.Context, svc *report.Service, f ranking.Filter, printText bool, exportPath string, logger *slog.Logger) error {
	if printText {
		r, err := svc.Build(ctx, f)
		if err != nil {
			return err
		}
		if err := report.WriteText(os.Stdout, r); err != nil {
			return fmt.Errorf("print report: %w", err)
		}
	}
	if exportPath == "" {
		return nil
	}

	out, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	n, err := svc.Export(ctx, f, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info("export written", "path", exportPath, "rows", n)
	return nil
}
