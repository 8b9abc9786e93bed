package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

// SalesStore implements storage.SalesStore using PostgreSQL.
type SalesStore struct {
	pool *Pool
}

// NewSalesStore creates a new SalesStore.
func NewSalesStore(pool *Pool) *SalesStore {
	return &SalesStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SalesStore = (*SalesStore)(nil)

// Insert adds a new sales point. Returns ErrDuplicateKey if (date, category) exists.
func (s *SalesStore) Insert(ctx context.Context, p *domain.SalesPoint) error {
	query := `
		INSERT INTO sales_points (date, category, amount)
		VALUES ($1, $2, $3)
	`

	started := time.Now()
	_, err := s.pool.Exec(ctx, query, domain.Day(p.Date), p.Category, p.Amount)
	observe("sales_insert", started, err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert sales point: %w", err)
	}
	return nil
}

// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
func (s *SalesStore) InsertBulk(ctx context.Context, points []*domain.SalesPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sales_points (date, category, amount)
		VALUES ($1, $2, $3)
	`

	for _, p := range points {
		_, err := tx.Exec(ctx, query, domain.Day(p.Date), p.Category, p.Amount)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sales point in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByDateRange retrieves all points with date in [start, end], ordered by
// (date, category) ASC.
func (s *SalesStore) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.SalesPoint, error) {
	query := `
		SELECT date, category, amount
		FROM sales_points
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, category ASC
	`

	started := time.Now()
	rows, err := s.pool.Query(ctx, query, domain.Day(start), domain.Day(end))
	observe("sales_get_range", started, err)
	if err != nil {
		return nil, fmt.Errorf("get sales points by date range: %w", err)
	}
	defer rows.Close()

	return scanSalesPoints(rows)
}

// GetDates retrieves the distinct recorded dates in [start, end], ordered ASC.
func (s *SalesStore) GetDates(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date
		FROM sales_points
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, domain.Day(start), domain.Day(end))
	if err != nil {
		return nil, fmt.Errorf("get sales dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan sales date: %w", err)
		}
		dates = append(dates, domain.Day(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales dates: %w", err)
	}
	return dates, nil
}

// CountAll returns the total number of recorded points.
func (s *SalesStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales_points`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sales points: %w", err)
	}
	return count, nil
}

// scanSalesPoint scans a single row into a SalesPoint.
func scanSalesPoint(row pgx.Row) (*domain.SalesPoint, error) {
	var p domain.SalesPoint
	if err := row.Scan(&p.Date, &p.Category, &p.Amount); err != nil {
		return nil, err
	}
	p.Date = domain.Day(p.Date)
	return &p, nil
}

// scanSalesPoints scans all rows into SalesPoints.
func scanSalesPoints(rows pgx.Rows) ([]*domain.SalesPoint, error) {
	var points []*domain.SalesPoint
	for rows.Next() {
		p, err := scanSalesPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales points: %w", err)
	}
	return points, nil
}
