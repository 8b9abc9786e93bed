// Package main runs one forecast and writes its report files:
// forecast_report.md and top_categories.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"categoryforecast/internal/config"
	"categoryforecast/internal/domain"
	"categoryforecast/internal/features"
	"categoryforecast/internal/forecast"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/predictor"
	"categoryforecast/internal/reporting"
	"categoryforecast/internal/storage"
	chstore "categoryforecast/internal/storage/clickhouse"
	"categoryforecast/internal/storage/memory"
	"categoryforecast/internal/storage/migrations"
	pgstore "categoryforecast/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	postgresDSN := flag.String("postgres-dsn", cfg.Database.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.Database.ClickHouseDSN, "ClickHouse connection string")
	predictorURL := flag.String("predictor-url", cfg.Predictor.InferenceURL, "Inference service base URL")
	useStub := flag.Bool("use-stub-predictor", cfg.Predictor.UseStub, "Use the built-in rolling-average predictor")
	manifestPath := flag.String("manifest", cfg.Model.ManifestPath, "Path to the feature manifest JSON")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	startDate := flag.String("start-date", "", "Period start (YYYY-MM-DD, default: tomorrow)")
	endDate := flag.String("end-date", "", "Period end (YYYY-MM-DD, default: start + default days)")
	topN := flag.Int("top-n", cfg.Forecast.DefaultTopN, "Number of top categories to rank")
	baseline := flag.Bool("baseline", true, "Include the preceding-period baseline comparison")
	outputDir := flag.String("output-dir", "output", "Output directory for report files")

	flag.Parse()

	logger := log.New(os.Stdout, "[forecast] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	period, err := resolvePeriod(*startDate, *endDate, cfg.Forecast.DefaultDays)
	if err != nil {
		logger.Fatalf("Invalid period: %v", err)
	}

	ctx := context.Background()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	manifest, pred := buildModel(*manifestPath, *predictorURL, cfg.Predictor.APIKey, *useStub, logger)

	var engine gapfill.SpanPredictor
	if pred != nil && manifest != nil {
		engine = forecast.NewEngine(stores.sales, pred, manifest, cfg.Forecast.ContextDays)
	} else if pred != nil {
		// A predictor without a manifest cannot synthesize features;
		// run historical-only rather than half-wired.
		pred = nil
	}

	orch := forecast.New(forecast.Options{
		Reconciler: gapfill.NewReconciler(stores.sales, engine),
		Predictor:  pred,
		Snapshots:  stores.snapshots,
		Verbose:    true,
	})

	logger.Printf("Forecasting %s (top %d)...", period, *topN)
	result, err := orch.Forecast(ctx, forecast.Request{
		Period:            period,
		TopN:              *topN,
		IncludeHistorical: *baseline,
	})
	if err != nil {
		logger.Fatalf("Forecast failed: %v", err)
	}

	if err := writeReports(ctx, *outputDir, result, stores.snapshots); err != nil {
		logger.Fatalf("Report generation failed: %v", err)
	}
	logger.Printf("Run %s complete, reports written to %s/", result.RunID, *outputDir)
}

// resolvePeriod builds the forecast period from flags. With no dates the
// period starts tomorrow and spans the configured default length.
func resolvePeriod(startRaw, endRaw string, defaultDays int) (domain.Period, error) {
	start := domain.AddDays(domain.Day(time.Now().UTC()), 1)
	if startRaw != "" {
		var err error
		start, err = domain.ParseDay(startRaw)
		if err != nil {
			return domain.Period{}, fmt.Errorf("start date: %w", err)
		}
	}

	end := domain.AddDays(start, defaultDays-1)
	if endRaw != "" {
		var err error
		end, err = domain.ParseDay(endRaw)
		if err != nil {
			return domain.Period{}, fmt.Errorf("end date: %w", err)
		}
	}

	period, swapped := domain.NewPeriod(start, end)
	if swapped {
		log.Printf("[forecast] period dates reversed, swapped to %s", period)
	}
	return period, nil
}

// writeReports renders and writes the markdown and CSV reports.
func writeReports(ctx context.Context, dir string, result *domain.ForecastResult, snapshots storage.ForecastSnapshotStore) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	report, err := reporting.NewGenerator(snapshots).Generate(ctx, result)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	mdPath := filepath.Join(dir, "forecast_report.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	csvPath := filepath.Join(dir, "top_categories.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Categories)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	return nil
}

// allStores holds all storage implementations.
type allStores struct {
	sales      storage.SalesStore
	categories storage.CategoryStore
	snapshots  storage.ForecastSnapshotStore
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

// buildModel loads the manifest and picks the inference backend. Either
// may be absent; the run then stays historical-only.
func buildModel(manifestPath, url, apiKey string, useStub bool, logger *log.Logger) (*domain.FeatureManifest, predictor.Predictor) {
	var manifest *domain.FeatureManifest
	if manifestPath != "" {
		m, err := features.LoadManifest(manifestPath)
		if err != nil {
			logger.Printf("Cannot load manifest %s: %v (historical-only run)", manifestPath, err)
		} else if err := features.ValidateManifest(m); err != nil {
			logger.Printf("Manifest %s invalid: %v (historical-only run)", manifestPath, err)
		} else {
			manifest = m
		}
	}

	if url != "" {
		return manifest, predictor.NewClient(url, apiKey)
	}
	if useStub && manifest != nil {
		return manifest, predictor.NewStub(manifest.Categories)
	}
	return manifest, nil
}
