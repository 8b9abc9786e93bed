// Package forecast sequences prediction for a requested period.
// It coordinates: context loading → feature synthesis → predictor
// invocation → aggregation, with optional baseline comparison and a
// degraded historical-only mode when no model is available.
package forecast

import (
	"context"
	"fmt"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/features"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/observability"
	"categoryforecast/internal/predictor"
	"categoryforecast/internal/storage"
)

// DefaultContextDays is the trailing history window loaded before a
// predicted span to seed its lag and rolling features.
const DefaultContextDays = 60

// Engine forecasts per-category daily amounts for a span of dates.
// It implements gapfill.SpanPredictor, so the reconciler can drive it
// chunk by chunk.
type Engine struct {
	sales       storage.SalesStore
	pred        predictor.Predictor
	manifest    *domain.FeatureManifest
	synth       *features.Synthesizer
	contextDays int
}

var _ gapfill.SpanPredictor = (*Engine)(nil)

// NewEngine creates an engine. contextDays <= 0 selects the default.
func NewEngine(sales storage.SalesStore, pred predictor.Predictor, manifest *domain.FeatureManifest, contextDays int) *Engine {
	if contextDays <= 0 {
		contextDays = DefaultContextDays
	}
	return &Engine{
		sales:       sales,
		pred:        pred,
		manifest:    manifest,
		synth:       features.NewSynthesizer(manifest),
		contextDays: contextDays,
	}
}

// PredictSpan forecasts every (date, category) pair of period.
// The trailing context window is loaded from the store, the whole span
// is synthesized in one chronological pass, the matrix is scored in one
// batched call, and each output vector is mapped positionally onto the
// manifest's category list.
//
// Returns gapfill.ErrNoContext when the context window holds no
// recorded rows at all.
func (e *Engine) PredictSpan(ctx context.Context, period domain.Period) ([]*domain.SalesPoint, error) {
	contextPeriod := domain.Period{
		Start: domain.AddDays(period.Start, -e.contextDays),
		End:   domain.AddDays(period.Start, -1),
	}
	history, err := e.sales.GetByDateRange(ctx, contextPeriod.Start, contextPeriod.End)
	if err != nil {
		return nil, fmt.Errorf("load context window %s: %w", contextPeriod, err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("context window %s is empty: %w", contextPeriod, gapfill.ErrNoContext)
	}

	vectors := e.synth.SynthesizeRange(period, history)
	matrix := e.synth.Matrix(vectors)

	start := time.Now()
	outputs, err := e.pred.Predict(ctx, e.manifest.Columns, matrix)
	observability.RecordPredictorCall(time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("predict span %s: %w", period, err)
	}
	if len(outputs) != len(vectors) {
		return nil, fmt.Errorf("predictor returned %d rows for %d days", len(outputs), len(vectors))
	}

	points := make([]*domain.SalesPoint, 0, len(vectors)*len(e.manifest.Categories))
	for i, v := range vectors {
		row := outputs[i]
		for j, category := range e.manifest.Categories {
			// Positional mapping; a vector shorter than the category
			// list leaves the tail categories at 0.0.
			var amount float64
			if j < len(row) {
				amount = row[j]
			}
			points = append(points, &domain.SalesPoint{Date: v.Date, Category: category, Amount: amount})
		}
	}
	return points, nil
}
