// Package main loads sales history into storage, either from CSV files
// or from the built-in deterministic demo generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"categoryforecast/internal/config"
	"categoryforecast/internal/domain"
	"categoryforecast/internal/ingestion"
	"categoryforecast/internal/storage"
	"categoryforecast/internal/storage/memory"
	"categoryforecast/internal/storage/migrations"
	pgstore "categoryforecast/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	postgresDSN := flag.String("postgres-dsn", cfg.Database.PostgresDSN, "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (data is discarded on exit; dry-run only)")
	demo := flag.Bool("demo", false, "Generate synthetic demo data instead of reading CSV files")
	demoDays := flag.Int("demo-days", 365, "Number of days of demo data")
	demoStart := flag.String("demo-start", "", "First demo date (YYYY-MM-DD, default: demo-days ago)")
	demoSeed := flag.Int64("demo-seed", 1, "Random seed for demo data")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	files := flag.Args()
	if !*demo && len(files) == 0 {
		logger.Fatal("Usage: ingest [flags] file.csv [file.csv...] or ingest --demo")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for a dry run)")
	}

	ctx := context.Background()

	sales, categories, cleanup, err := createStores(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		SalesStore:    sales,
		CategoryStore: categories,
		Logger:        logger,
	})

	if *demo {
		start, err := resolveDemoStart(*demoStart, *demoDays)
		if err != nil {
			logger.Fatalf("Invalid --demo-start: %v", err)
		}
		points := ingestion.GenerateDemoData(start, *demoDays, *demoSeed)
		logger.Printf("Generated %d demo points from %s over %d days (seed %d)",
			len(points), domain.FormatDay(start), *demoDays, *demoSeed)

		stats, err := runner.IngestPoints(ctx, points)
		if err != nil {
			logger.Fatalf("Demo ingestion failed: %v", err)
		}
		logger.Printf("Done: %d inserted, %d duplicates", stats.Inserted, stats.Duplicates)
		return
	}

	for _, path := range files {
		stats, err := runner.IngestFile(ctx, path)
		if err != nil {
			logger.Fatalf("Ingestion of %s failed: %v", path, err)
		}
		logger.Printf("%s: %d inserted, %d duplicates, %d malformed rows skipped",
			path, stats.Inserted, stats.Duplicates, stats.Skipped)
	}
}

// resolveDemoStart parses the explicit start date or derives one so the
// demo span ends yesterday.
func resolveDemoStart(raw string, days int) (time.Time, error) {
	if raw != "" {
		return domain.ParseDay(raw)
	}
	return domain.AddDays(domain.Day(time.Now().UTC()), -days), nil
}

// createStores creates the sales and category stores.
func createStores(ctx context.Context, postgresDSN string, useMemory bool) (storage.SalesStore, storage.CategoryStore, func(), error) {
	if useMemory {
		return memory.NewSalesStore(), memory.NewCategoryStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	return pgstore.NewSalesStore(pool), pgstore.NewCategoryStore(pool), func() { pool.Close() }, nil
}
