package gapfill

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/observability"
	"categoryforecast/internal/ranking"
	"categoryforecast/internal/storage"
)

// ErrNoContext is returned by a SpanPredictor when no recorded history
// precedes the requested span, leaving lag and rolling features nothing
// to seed from. It is fatal to the whole request, unlike ordinary
// per-chunk prediction failures.
var ErrNoContext = errors.New("no historical context before requested span")

// SpanPredictor produces predicted per-category daily amounts for every
// date of a period. Implementations return one point per (date, category)
// pair over their fixed target-category list.
type SpanPredictor interface {
	PredictSpan(ctx context.Context, period domain.Period) ([]*domain.SalesPoint, error)
}

// Reconciliation is the merged outcome for one period: the ranked answer
// plus the row-level dataset it was aggregated from, with per-date
// provenance so callers can persist or inspect what was model-filled.
type Reconciliation struct {
	Result *domain.ForecastResult

	// Points holds the merged rows ordered by (date, category) ASC.
	Points []*domain.SalesPoint

	// Provenance maps each covered day (YYYY-MM-DD) to its tag.
	Provenance map[string]domain.Provenance
}

// Reconciler answers "top categories for period P" even when P is only
// partially covered by recorded history, by predicting the missing dates
// chunk by chunk and merging under recorded-wins semantics.
type Reconciler struct {
	sales     storage.SalesStore
	predictor SpanPredictor
}

// NewReconciler creates a reconciler. The predictor may be nil only if
// callers restrict themselves to HistoricalOnly.
func NewReconciler(sales storage.SalesStore, predictor SpanPredictor) *Reconciler {
	return &Reconciler{sales: sales, predictor: predictor}
}

// CanPredict reports whether a span predictor is wired in. Without one
// only HistoricalOnly is safe to call.
func (r *Reconciler) CanPredict() bool {
	return r.predictor != nil
}

// Reconcile merges recorded rows for period with chunk-predicted rows for
// its missing dates, then ranks the combined dataset.
//
// A chunk whose prediction fails is logged and skipped; chunks already
// merged are kept, so one bad chunk degrades the answer instead of
// discarding it. ErrNoContext is the exception: with no history to seed
// from, every chunk would fail identically, so it aborts the request.
func (r *Reconciler) Reconcile(ctx context.Context, period domain.Period, topN int) (*Reconciliation, error) {
	recorded, err := r.sales.GetByDateRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("load recorded points: %w", err)
	}

	merged := make(map[string]*domain.SalesPoint, len(recorded))
	prov := make(map[string]domain.Provenance)
	for _, p := range recorded {
		merged[p.Key()] = p
		prov[domain.FormatDay(p.Date)] = domain.ProvenanceHistorical
	}

	recordedDates := make([]time.Time, 0, len(prov))
	for _, p := range recorded {
		if len(recordedDates) == 0 || !domain.Day(p.Date).Equal(recordedDates[len(recordedDates)-1]) {
			recordedDates = append(recordedDates, domain.Day(p.Date))
		}
	}

	missing := MissingDates(period, recordedDates)
	for _, chunk := range ChunkDates(missing) {
		predicted, err := r.predictor.PredictSpan(ctx, chunk)
		if err != nil {
			if errors.Is(err, ErrNoContext) {
				return nil, err
			}
			observability.RecordChunkFailure()
			log.Printf("[gapfill] prediction for chunk %s failed, keeping partial result: %v", chunk, err)
			continue
		}
		observability.RecordChunkPredicted(chunk.Days())
		for _, p := range predicted {
			// Recorded rows always win on conflict.
			if _, exists := merged[p.Key()]; exists {
				continue
			}
			merged[p.Key()] = p
			day := domain.FormatDay(p.Date)
			if prov[day] != domain.ProvenanceHistorical {
				prov[day] = domain.ProvenancePredicted
			}
		}
	}

	return r.finish(period, topN, merged, prov), nil
}

// HistoricalOnly ranks recorded rows for period without any gap filling.
// Missing dates are simply absent from the aggregation.
func (r *Reconciler) HistoricalOnly(ctx context.Context, period domain.Period, topN int) (*Reconciliation, error) {
	recorded, err := r.sales.GetByDateRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("load recorded points: %w", err)
	}

	merged := make(map[string]*domain.SalesPoint, len(recorded))
	prov := make(map[string]domain.Provenance)
	for _, p := range recorded {
		merged[p.Key()] = p
		prov[domain.FormatDay(p.Date)] = domain.ProvenanceHistorical
	}

	return r.finish(period, topN, merged, prov), nil
}

// finish aggregates the merged dataset, ranks it, and computes data
// quality. Point counts are per date: one historical or predicted point
// per covered day of the period.
func (r *Reconciler) finish(period domain.Period, topN int, merged map[string]*domain.SalesPoint, prov map[string]domain.Provenance) *Reconciliation {
	points := make([]*domain.SalesPoint, 0, len(merged))
	totals := make(map[string]float64)
	for _, p := range merged {
		points = append(points, p)
		totals[p.Category] += p.Amount
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		return points[i].Category < points[j].Category
	})

	historical, predicted := 0, 0
	for _, tag := range prov {
		if tag == domain.ProvenanceHistorical {
			historical++
		} else {
			predicted++
		}
	}

	result := &domain.ForecastResult{
		Period:        period.Summary(),
		TotalAmount:   ranking.GrandTotal(totals),
		TopCategories: ranking.TopCategories(totals, topN),
		DataQuality: domain.DataQuality{
			HistoricalPoints: historical,
			PredictedPoints:  predicted,
			CompletenessPct:  completeness(historical, predicted),
		},
	}

	return &Reconciliation{Result: result, Points: points, Provenance: prov}
}

// completeness is historical / (historical + predicted) * 100, or 0 when
// the period produced no points at all.
func completeness(historical, predicted int) float64 {
	total := historical + predicted
	if total == 0 {
		return 0
	}
	return float64(historical) / float64(total) * 100
}
