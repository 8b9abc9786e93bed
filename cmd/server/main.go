// Package main runs the forecasting service: the HTTP API, the
// gap-filling forecast engine behind it, and snapshot persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"categoryforecast/internal/api"
	"categoryforecast/internal/config"
	"categoryforecast/internal/domain"
	"categoryforecast/internal/features"
	"categoryforecast/internal/forecast"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/observability"
	"categoryforecast/internal/predictor"
	"categoryforecast/internal/storage"
	chstore "categoryforecast/internal/storage/clickhouse"
	"categoryforecast/internal/storage/memory"
	"categoryforecast/internal/storage/migrations"
	pgstore "categoryforecast/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	sales      storage.SalesStore
	categories storage.CategoryStore
	snapshots  storage.ForecastSnapshotStore
}

func main() {
	cfg := config.Load()

	listenAddr := flag.String("listen-addr", cfg.Server.ListenAddr, "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", cfg.Database.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.Database.ClickHouseDSN, "ClickHouse connection string")
	predictorURL := flag.String("predictor-url", cfg.Predictor.InferenceURL, "Inference service base URL")
	useStub := flag.Bool("use-stub-predictor", cfg.Predictor.UseStub, "Use the built-in rolling-average predictor")
	manifestPath := flag.String("manifest", cfg.Model.ManifestPath, "Path to the feature manifest JSON")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	observability.StartUptimeCounter(ctx)

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Model manifest. A broken or absent manifest degrades the service
	// to historical-only answers instead of refusing to start.
	manifest, degradedReason := loadManifest(*manifestPath, logger)

	pred, predReason := buildPredictor(*predictorURL, cfg.Predictor.APIKey, *useStub, manifest, logger)
	if degradedReason == "" {
		degradedReason = predReason
	}

	var engine gapfill.SpanPredictor
	if pred != nil && manifest != nil {
		engine = forecast.NewEngine(stores.sales, pred, manifest, cfg.Forecast.ContextDays)
	} else if pred != nil {
		// A predictor without a manifest cannot synthesize features;
		// run historical-only rather than half-wired.
		pred = nil
	}

	reconciler := gapfill.NewReconciler(stores.sales, engine)
	orch := forecast.New(forecast.Options{
		Reconciler: reconciler,
		Predictor:  pred,
		Snapshots:  stores.snapshots,
		Verbose:    true,
	})

	server := api.NewServer(api.Options{
		Orchestrator:        orch,
		Reconciler:          reconciler,
		Sales:               stores.sales,
		Categories:          stores.categories,
		Manifest:            manifest,
		DegradedReason:      degradedReason,
		DefaultForecastDays: cfg.Forecast.DefaultDays,
		DefaultTopN:         cfg.Forecast.DefaultTopN,
	})

	httpServer := &http.Server{
		Addr:              *listenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Graceful shutdown failed: %v", err)
			httpServer.Close()
		}
	}()

	if degradedReason != "" {
		logger.Printf("Running DEGRADED: %s", degradedReason)
	}
	logger.Printf("Listening on %s", *listenAddr)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores, applying migrations for the
// database-backed ones.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			sales:      memory.NewSalesStore(),
			categories: memory.NewCategoryStore(),
			snapshots:  memory.NewForecastSnapshotStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &allStores{
		sales:      pgstore.NewSalesStore(pool),
		categories: pgstore.NewCategoryStore(pool),
	}
	cleanup := func() { pool.Close() }

	// ClickHouse is optional: without it snapshots are simply not kept.
	if clickhouseDSN != "" {
		chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		stores.snapshots = chstore.NewForecastSnapshotStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// loadManifest loads and validates the feature manifest. Failure is
// reported as a degradation reason rather than an error.
func loadManifest(path string, logger *log.Logger) (*domain.FeatureManifest, string) {
	if path == "" {
		return nil, "no model manifest configured"
	}

	manifest, err := features.LoadManifest(path)
	if err != nil {
		logger.Printf("Cannot load manifest %s: %v", path, err)
		return nil, fmt.Sprintf("model manifest unavailable: %v", err)
	}
	if err := features.ValidateManifest(manifest); err != nil {
		logger.Printf("Manifest %s invalid: %v", path, err)
		return nil, fmt.Sprintf("model manifest invalid: %v", err)
	}

	logger.Printf("Loaded model %s (trained %s, %d features, %d categories)",
		manifest.ModelVersion, manifest.TrainedAt, len(manifest.Columns), len(manifest.Categories))
	return manifest, ""
}

// buildPredictor picks the inference backend: remote service, built-in
// stub, or none (degraded).
func buildPredictor(url, apiKey string, useStub bool, manifest *domain.FeatureManifest, logger *log.Logger) (predictor.Predictor, string) {
	if url != "" {
		logger.Printf("Using inference service at %s", url)
		return predictor.NewClient(url, apiKey), ""
	}
	if useStub {
		if manifest == nil {
			return nil, "stub predictor requires a manifest"
		}
		logger.Println("Using stub predictor (rolling average)")
		return predictor.NewStub(manifest.Categories), ""
	}
	return nil, "no predictor configured"
}
