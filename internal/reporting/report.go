package reporting

import "time"

// Report is the renderable summary of one forecast run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Answered period
	PeriodStart string
	PeriodEnd   string
	PeriodDays  int

	// Aggregates
	TotalAmount    float64
	FormattedTotal string
	Degraded       bool
	DegradedReason string

	// Ranked categories (descending by amount)
	Categories []CategoryRow

	// Data quality
	HistoricalPoints int
	PredictedPoints  int
	CompletenessPct  float64

	// Provenance breakdown over persisted snapshot rows, when available
	SnapshotRows       int
	PredictedSnapshots int

	// Baseline comparison, when requested
	Baseline *BaselineSection
}

// CategoryRow is one ranked category in the report.
type CategoryRow struct {
	Rank                int
	Category            string
	Amount              float64
	Percentage          float64
	FormattedAmount     string
	FormattedPercentage string
}

// BaselineSection compares the answered period with the preceding one.
type BaselineSection struct {
	PeriodStart     string
	PeriodEnd       string
	TotalAmount     float64
	FormattedTotal  string
	GrowthFormatted string
	GrowthUndefined bool
}
