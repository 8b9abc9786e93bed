// Package main scores the predictor against recorded history: a past
// period is re-forecast and per-category MAE/MAPE are printed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"categoryforecast/internal/config"
	"categoryforecast/internal/domain"
	"categoryforecast/internal/evaluation"
	"categoryforecast/internal/features"
	"categoryforecast/internal/forecast"
	"categoryforecast/internal/predictor"
	"categoryforecast/internal/storage"
	"categoryforecast/internal/storage/memory"
	"categoryforecast/internal/storage/migrations"
	pgstore "categoryforecast/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	postgresDSN := flag.String("postgres-dsn", cfg.Database.PostgresDSN, "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	predictorURL := flag.String("predictor-url", cfg.Predictor.InferenceURL, "Inference service base URL")
	useStub := flag.Bool("use-stub-predictor", cfg.Predictor.UseStub, "Use the built-in rolling-average predictor")
	manifestPath := flag.String("manifest", cfg.Model.ManifestPath, "Path to the feature manifest JSON")

	startDate := flag.String("start-date", "", "Evaluated period start (YYYY-MM-DD, required)")
	endDate := flag.String("end-date", "", "Evaluated period end (YYYY-MM-DD, required)")
	categories := flag.String("categories", "", "Comma-separated categories to score (default: all)")

	flag.Parse()

	logger := log.New(os.Stdout, "[evaluate] ", log.LstdFlags|log.Lshortfile)

	if *startDate == "" || *endDate == "" {
		logger.Fatal("--start-date and --end-date are required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	start, err := domain.ParseDay(*startDate)
	if err != nil {
		logger.Fatalf("Invalid --start-date: %v", err)
	}
	end, err := domain.ParseDay(*endDate)
	if err != nil {
		logger.Fatalf("Invalid --end-date: %v", err)
	}
	period, swapped := domain.NewPeriod(start, end)
	if swapped {
		logger.Printf("Period dates reversed, swapped to %s", period)
	}

	ctx := context.Background()

	sales, cleanup, err := createSalesStore(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	manifest, err := loadManifest(*manifestPath)
	if err != nil {
		logger.Fatalf("Manifest: %v", err)
	}

	pred := buildPredictor(*predictorURL, cfg.Predictor.APIKey, *useStub, manifest)
	if pred == nil {
		logger.Fatal("A predictor is required: set --predictor-url or --use-stub-predictor")
	}

	engine := forecast.NewEngine(sales, pred, manifest, cfg.Forecast.ContextDays)

	var targets []string
	if *categories != "" {
		for _, name := range strings.Split(*categories, ",") {
			if name = strings.TrimSpace(name); name != "" {
				targets = append(targets, name)
			}
		}
	}

	logger.Printf("Evaluating %s...", period)
	result, err := evaluation.NewEvaluator(sales, engine).Evaluate(ctx, period, targets)
	if err != nil {
		logger.Fatalf("Evaluation failed: %v", err)
	}

	printResult(result)
}

// printResult writes the score table to stdout.
func printResult(result *domain.EvaluationResult) {
	fmt.Printf("\nEvaluation: %s to %s (%d days)\n\n",
		result.Period.Start, result.Period.End, result.DaysEvaluated)
	fmt.Printf("%-24s %12s %12s %12s %12s\n", "CATEGORY", "ACTUAL", "PREDICTED", "MAE", "MAPE")

	for _, score := range result.Categories {
		mape := fmt.Sprintf("%.2f%%", score.MAPE)
		if score.Skipped {
			mape = "skipped"
		}
		fmt.Printf("%-24s %12.2f %12.2f %12.2f %12s\n",
			score.Category, score.ActualTotal, score.PredictedTotal, score.MAE, mape)
	}

	fmt.Printf("\n%-24s %12.2f %12.2f %12.2f %11.2f%%\n",
		"OVERALL", result.ActualTotal, result.PredictedTotal, result.OverallMAE, result.OverallMAPE)
}

func createSalesStore(ctx context.Context, postgresDSN string, useMemory bool) (storage.SalesStore, func(), error) {
	if useMemory {
		return memory.NewSalesStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	return pgstore.NewSalesStore(pool), func() { pool.Close() }, nil
}

func loadManifest(path string) (*domain.FeatureManifest, error) {
	if path == "" {
		return nil, fmt.Errorf("--manifest is required")
	}
	manifest, err := features.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := features.ValidateManifest(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func buildPredictor(url, apiKey string, useStub bool, manifest *domain.FeatureManifest) predictor.Predictor {
	if url != "" {
		return predictor.NewClient(url, apiKey)
	}
	if useStub {
		return predictor.NewStub(manifest.Categories)
	}
	return nil
}
