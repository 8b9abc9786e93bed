package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/observability"
	"categoryforecast/internal/storage"
)

// Runner loads sales points into storage and keeps the category catalog
// in sync with the categories seen in the data.
type Runner struct {
	sales      storage.SalesStore
	categories storage.CategoryStore
	logger     *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	SalesStore    storage.SalesStore
	CategoryStore storage.CategoryStore
	Logger        *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		sales:      opts.SalesStore,
		categories: opts.CategoryStore,
		logger:     logger,
	}
}

// IngestStats summarizes one ingestion run.
type IngestStats struct {
	Inserted   int
	Duplicates int
	Skipped    int // malformed source rows
	Categories int // new catalog entries registered
}

// IngestFile parses a CSV file and loads its rows.
func (r *Runner) IngestFile(ctx context.Context, path string) (*IngestStats, error) {
	parsed, err := ParseCSVFile(path)
	if err != nil {
		observability.RecordIngestionError("parse")
		return nil, err
	}

	for _, msg := range parsed.Errors {
		r.logger.Printf("[ingestion] skipping row: %s", msg)
	}
	if parsed.Skipped > 0 {
		observability.RecordIngestionError("malformed_row")
		r.logger.Printf("[ingestion] %s: skipped %d malformed rows", path, parsed.Skipped)
	}

	stats, err := r.IngestPoints(ctx, parsed.Points)
	if err != nil {
		return nil, err
	}
	stats.Skipped = parsed.Skipped
	return stats, nil
}

// IngestPoints loads the given points. Already-recorded (date, category)
// pairs are skipped, so re-running the same file is harmless. New
// category names are registered in the catalog before the rows are
// written.
func (r *Runner) IngestPoints(ctx context.Context, points []*domain.SalesPoint) (*IngestStats, error) {
	stats := &IngestStats{}

	registered, err := r.registerCategories(ctx, points)
	if err != nil {
		observability.RecordIngestionError("category_upsert")
		return nil, err
	}
	stats.Categories = registered

	for _, p := range points {
		err := r.sales.Insert(ctx, p)
		if errors.Is(err, storage.ErrDuplicateKey) {
			stats.Duplicates++
			continue
		}
		if err != nil {
			observability.RecordIngestionError("insert")
			return nil, fmt.Errorf("insert point %s: %w", p.Key(), err)
		}
		stats.Inserted++
	}

	observability.RecordPointsIngested(stats.Inserted)
	observability.RecordIngestSuccess(time.Now())
	r.logger.Printf("[ingestion] loaded %d points (%d duplicates skipped, %d new categories)",
		stats.Inserted, stats.Duplicates, stats.Categories)
	return stats, nil
}

// registerCategories upserts every distinct category name found in the
// batch, preserving the catalog's existing display order for names it
// already has.
func (r *Runner) registerCategories(ctx context.Context, points []*domain.SalesPoint) (int, error) {
	existing, err := r.categories.Names(ctx)
	if err != nil {
		return 0, fmt.Errorf("load category names: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		known[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var added []string
	for _, p := range points {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		if _, ok := known[p.Category]; !ok {
			added = append(added, p.Category)
		}
	}
	sort.Strings(added)

	nextOrder := len(existing)
	for _, name := range added {
		c := &domain.CategoryInfo{Name: name, DisplayOrder: nextOrder}
		if err := r.categories.Upsert(ctx, c); err != nil {
			return 0, fmt.Errorf("upsert category %s: %w", name, err)
		}
		nextOrder++
	}

	return len(added), nil
}
