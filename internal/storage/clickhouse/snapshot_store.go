package clickhouse

import (
	"context"
	"fmt"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

// ForecastSnapshotStore implements storage.ForecastSnapshotStore using
// ClickHouse. Snapshots are an append-only audit log, which fits a
// MergeTree ordered by (run_id, date, category).
type ForecastSnapshotStore struct {
	conn *Conn
}

// NewForecastSnapshotStore creates a new ForecastSnapshotStore.
func NewForecastSnapshotStore(conn *Conn) *ForecastSnapshotStore {
	return &ForecastSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ForecastSnapshotStore = (*ForecastSnapshotStore)(nil)

// InsertBulk appends all rows of a single run.
func (s *ForecastSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.ForecastSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO forecast_snapshots (
			run_id, date, category, amount, provenance, generated_at_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot batch: %w", err)
	}

	for _, snap := range snapshots {
		err := batch.Append(
			snap.RunID,
			domain.Day(snap.Date),
			snap.Category,
			snap.Amount,
			string(snap.Provenance),
			snap.GeneratedAtMs,
		)
		if err != nil {
			return fmt.Errorf("append snapshot row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send snapshot batch: %w", err)
	}
	return nil
}

// GetByRunID retrieves all rows for a run, ordered by (date, category) ASC.
func (s *ForecastSnapshotStore) GetByRunID(ctx context.Context, runID string) ([]*domain.ForecastSnapshot, error) {
	query := `
		SELECT run_id, date, category, amount, provenance, generated_at_ms
		FROM forecast_snapshots
		WHERE run_id = ?
		ORDER BY date ASC, category ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by run id: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.ForecastSnapshot
	for rows.Next() {
		var snap domain.ForecastSnapshot
		var date time.Time
		var provenance string
		err := rows.Scan(&snap.RunID, &date, &snap.Category, &snap.Amount, &provenance, &snap.GeneratedAtMs)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Date = domain.Day(date)
		snap.Provenance = domain.Provenance(provenance)
		snapshots = append(snapshots, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// CountAll returns the total number of snapshot rows.
func (s *ForecastSnapshotStore) CountAll(ctx context.Context) (int64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count() FROM forecast_snapshots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return int64(count), nil
}

// GetRecentRuns retrieves the most recent distinct run IDs, newest first.
func (s *ForecastSnapshotStore) GetRecentRuns(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	query := `
		SELECT run_id, max(generated_at_ms) AS latest
		FROM forecast_snapshots
		GROUP BY run_id
		ORDER BY latest DESC, run_id ASC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent runs: %w", err)
	}
	defer rows.Close()

	runIDs := []string{}
	for rows.Next() {
		var runID string
		var latest int64
		if err := rows.Scan(&runID, &latest); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		runIDs = append(runIDs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run ids: %w", err)
	}
	return runIDs, nil
}
