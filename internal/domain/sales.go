package domain

import "time"

// Provenance marks where a per-day value came from.
type Provenance string

// Provenance constants.
const (
	ProvenanceHistorical Provenance = "historical"
	ProvenancePredicted  Provenance = "predicted"
)

// SalesPoint represents recorded revenue for one category on one day.
// Corresponds to sales_points table in PostgreSQL.
// Immutable once recorded; uniquely keyed by (date, category).
type SalesPoint struct {
	Date     time.Time // calendar day, UTC midnight
	Category string    // category name
	Amount   float64   // revenue for the day
}

// Key returns the unique (date, category) key for a sales point.
func (p *SalesPoint) Key() string {
	return FormatDay(p.Date) + "|" + p.Category
}
