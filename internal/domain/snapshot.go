package domain

import "time"

// ForecastSnapshot is one persisted per-day per-category value from a
// finished forecast run, with its provenance.
// Corresponds to forecast_snapshots table in ClickHouse.
// Write-only from the engine's perspective; read paths are operator
// queries over the audit log.
type ForecastSnapshot struct {
	RunID         string     // deterministic forecast run identifier
	Date          time.Time  // calendar day, UTC midnight
	Category      string     // category name
	Amount        float64    // reconciled amount for the day
	Provenance    Provenance // historical | predicted
	GeneratedAtMs int64      // run completion timestamp (Unix ms)
}
