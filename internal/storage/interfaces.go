package storage

import (
	"context"
	"time"

	"categoryforecast/internal/domain"
)

// SalesStore provides access to sales_points storage.
type SalesStore interface {
	// Insert adds a new sales point. Returns ErrDuplicateKey if (date, category) exists.
	Insert(ctx context.Context, p *domain.SalesPoint) error

	// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, points []*domain.SalesPoint) error

	// GetByDateRange retrieves all points with date in [start, end] (inclusive),
	// ordered by (date, category) ASC. Gaps are expected: the result may cover
	// fewer dates than the calendar span.
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.SalesPoint, error)

	// GetDates retrieves the distinct dates with at least one recorded point
	// in [start, end] (inclusive), ordered ASC.
	GetDates(ctx context.Context, start, end time.Time) ([]time.Time, error)

	// CountAll returns the total number of recorded points.
	CountAll(ctx context.Context) (int64, error)
}

// CategoryStore provides access to the category catalog.
type CategoryStore interface {
	// Upsert inserts the category or leaves an existing row unchanged.
	Upsert(ctx context.Context, c *domain.CategoryInfo) error

	// GetAll retrieves all categories ordered by display_order, then name.
	GetAll(ctx context.Context) ([]*domain.CategoryInfo, error)

	// GetByName retrieves one catalog entry. Returns ErrNotFound when absent.
	GetByName(ctx context.Context, name string) (*domain.CategoryInfo, error)

	// Names retrieves all category names in catalog order.
	Names(ctx context.Context) ([]string, error)
}

// ForecastSnapshotStore provides access to forecast_snapshots storage.
// Snapshots are append-only rows recording what a forecast run produced.
type ForecastSnapshotStore interface {
	// InsertBulk appends all rows of a single run.
	InsertBulk(ctx context.Context, snapshots []*domain.ForecastSnapshot) error

	// GetByRunID retrieves all rows for a run, ordered by (date, category) ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.ForecastSnapshot, error)

	// GetRecentRuns retrieves the most recent distinct run IDs, newest first.
	GetRecentRuns(ctx context.Context, limit int) ([]string, error)

	// CountAll returns the total number of snapshot rows.
	CountAll(ctx context.Context) (int64, error)
}
