package forecast

import (
	"context"
	"fmt"
	"log"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/idhash"
	"categoryforecast/internal/observability"
	"categoryforecast/internal/predictor"
	"categoryforecast/internal/ranking"
	"categoryforecast/internal/storage"
)

// DefaultTopN is the number of ranked categories returned when a
// request does not say how many it wants.
const DefaultTopN = 5

// Request describes one forecast request.
type Request struct {
	Period            domain.Period
	TopN              int
	IncludeHistorical bool
}

// Orchestrator drives the full request pipeline on top of the
// reconciler, attaching run IDs, snapshot persistence, and the optional
// historical baseline with its growth rate.
type Orchestrator struct {
	reconciler *gapfill.Reconciler
	pred       predictor.Predictor
	snapshots  storage.ForecastSnapshotStore
	now        func() time.Time
	verbose    bool
}

// Options for creating Orchestrator.
type Options struct {
	Reconciler *gapfill.Reconciler
	Predictor  predictor.Predictor

	// Snapshots persists per-row forecast output. Nil disables persistence.
	Snapshots storage.ForecastSnapshotStore

	// Now supplies timestamps for run IDs and snapshots. Defaults to time.Now.
	Now func() time.Time

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		reconciler: opts.Reconciler,
		pred:       opts.Predictor,
		snapshots:  opts.Snapshots,
		now:        now,
		verbose:    opts.Verbose,
	}
}

// Forecast answers one request.
// Phases:
//  1. Reconcile the period (gap-filling prediction, or historical-only
//     when no predictor is available)
//  2. Persist snapshot rows for the run
//  3. Attach the historical baseline and growth rate if requested
//
// A missing predictor degrades the answer instead of failing it; the
// degradation is surfaced on the result.
func (o *Orchestrator) Forecast(ctx context.Context, req Request) (*domain.ForecastResult, error) {
	started := time.Now()
	if req.TopN <= 0 {
		req.TopN = DefaultTopN
	}

	// Phase 1: Reconciliation
	mode := "predicted"
	var rec *gapfill.Reconciliation
	var err error
	if o.pred == nil || !o.pred.Available() || !o.reconciler.CanPredict() {
		mode = "degraded"
		log.Printf("[forecast] predictor unavailable, answering %s from history only", req.Period)
		rec, err = o.reconciler.HistoricalOnly(ctx, req.Period, req.TopN)
	} else {
		o.log("Phase 1: Reconciling %s (top %d)...", req.Period, req.TopN)
		rec, err = o.reconciler.Reconcile(ctx, req.Period, req.TopN)
	}
	if err != nil {
		observability.RecordForecastRun(mode, "error", time.Since(started).Seconds())
		return nil, fmt.Errorf("phase 1 (reconcile %s) failed: %w", req.Period, err)
	}

	result := rec.Result
	if mode == "degraded" {
		result.Degraded = true
		result.DegradedReason = "predictor not available, historical data only"
	}

	generatedAt := o.now()
	result.RunID = idhash.RunID(result.Period.Start, result.Period.End, req.TopN, generatedAt.UnixMilli())
	o.log("  Run %s: total %s, completeness %.1f%%",
		result.RunID, ranking.FormatCurrency(result.TotalAmount), result.DataQuality.CompletenessPct)

	// Phase 2: Snapshot persistence
	if o.snapshots != nil {
		if err := o.persistSnapshots(ctx, result.RunID, rec, generatedAt); err != nil {
			// Snapshots are advisory; the answer stands without them.
			log.Printf("[forecast] snapshot persistence for run %s failed: %v", result.RunID, err)
		}
	}

	// Phase 3: Historical baseline
	if req.IncludeHistorical {
		baselinePeriod := req.Period.Preceding()
		o.log("Phase 3: Baseline %s...", baselinePeriod)
		baseline, err := o.baseline(ctx, baselinePeriod, req.TopN, mode)
		if err != nil {
			log.Printf("[forecast] baseline %s failed, omitting comparison: %v", baselinePeriod, err)
		} else {
			result.Historical = baseline
			growth := ranking.Growth(result.TotalAmount, baseline.TotalAmount)
			result.Growth = &growth
			o.log("  Growth vs %s: %s", baselinePeriod, growth.Formatted)
		}
	}

	observability.RecordForecastRun(mode, "success", time.Since(started).Seconds())
	observability.RecordCompleteness(result.DataQuality.CompletenessPct)
	observability.DefaultMetrics.LastSuccessfulForecast.Set(float64(generatedAt.Unix()))

	return result, nil
}

// baseline answers the preceding period. In degraded mode it stays
// historical-only; otherwise gaps in the baseline are predicted too.
func (o *Orchestrator) baseline(ctx context.Context, period domain.Period, topN int, mode string) (*domain.ForecastResult, error) {
	var rec *gapfill.Reconciliation
	var err error
	if mode == "degraded" {
		rec, err = o.reconciler.HistoricalOnly(ctx, period, topN)
	} else {
		rec, err = o.reconciler.Reconcile(ctx, period, topN)
	}
	if err != nil {
		return nil, err
	}
	return rec.Result, nil
}

// persistSnapshots writes one row per merged (date, category) pair.
func (o *Orchestrator) persistSnapshots(ctx context.Context, runID string, rec *gapfill.Reconciliation, generatedAt time.Time) error {
	snapshots := make([]*domain.ForecastSnapshot, 0, len(rec.Points))
	for _, p := range rec.Points {
		snapshots = append(snapshots, &domain.ForecastSnapshot{
			RunID:         runID,
			Date:          p.Date,
			Category:      p.Category,
			Amount:        p.Amount,
			Provenance:    rec.Provenance[domain.FormatDay(p.Date)],
			GeneratedAtMs: generatedAt.UnixMilli(),
		})
	}

	err := o.snapshots.InsertBulk(ctx, snapshots)
	observability.RecordSnapshotWrite(len(snapshots), err)
	if err != nil {
		return fmt.Errorf("insert %d snapshot rows: %w", len(snapshots), err)
	}
	o.log("  Persisted %d snapshot rows", len(snapshots))
	return nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[forecast] "+format, args...)
	}
}
