package reporting

import (
	"context"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/ranking"
	"categoryforecast/internal/storage"
)

// Generator builds reports from forecast results.
type Generator struct {
	snapshots storage.ForecastSnapshotStore // optional; nil skips the snapshot section
	now       func() time.Time              // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(snapshots storage.ForecastSnapshotStore) *Generator {
	return &Generator{
		snapshots: snapshots,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report for one forecast result. When a snapshot
// store is wired and the result carries a run ID, the persisted rows of
// that run are counted into the provenance section.
func (g *Generator) Generate(ctx context.Context, result *domain.ForecastResult) (*Report, error) {
	report := &Report{
		GeneratedAt:      g.now(),
		RunID:            result.RunID,
		PeriodStart:      result.Period.Start,
		PeriodEnd:        result.Period.End,
		PeriodDays:       result.Period.Days,
		TotalAmount:      result.TotalAmount,
		FormattedTotal:   ranking.FormatCurrency(result.TotalAmount),
		Degraded:         result.Degraded,
		DegradedReason:   result.DegradedReason,
		HistoricalPoints: result.DataQuality.HistoricalPoints,
		PredictedPoints:  result.DataQuality.PredictedPoints,
		CompletenessPct:  result.DataQuality.CompletenessPct,
	}

	for i, c := range result.TopCategories {
		report.Categories = append(report.Categories, CategoryRow{
			Rank:                i + 1,
			Category:            c.Category,
			Amount:              c.Amount,
			Percentage:          c.Percentage,
			FormattedAmount:     c.FormattedAmount,
			FormattedPercentage: c.FormattedPercentage,
		})
	}

	if g.snapshots != nil && result.RunID != "" {
		rows, err := g.snapshots.GetByRunID(ctx, result.RunID)
		if err != nil {
			return nil, err
		}
		report.SnapshotRows = len(rows)
		for _, row := range rows {
			if row.Provenance == domain.ProvenancePredicted {
				report.PredictedSnapshots++
			}
		}
	}

	if result.Historical != nil {
		section := &BaselineSection{
			PeriodStart:    result.Historical.Period.Start,
			PeriodEnd:      result.Historical.Period.End,
			TotalAmount:    result.Historical.TotalAmount,
			FormattedTotal: ranking.FormatCurrency(result.Historical.TotalAmount),
		}
		if result.Growth != nil {
			section.GrowthFormatted = result.Growth.Formatted
			section.GrowthUndefined = result.Growth.Undefined
		}
		report.Baseline = section
	}

	return report, nil
}
