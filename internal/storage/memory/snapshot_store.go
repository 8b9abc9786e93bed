package memory

import (
	"context"
	"sort"
	"sync"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

// ForecastSnapshotStore is an in-memory implementation of
// storage.ForecastSnapshotStore.
type ForecastSnapshotStore struct {
	mu   sync.RWMutex
	data []*domain.ForecastSnapshot // append-only
}

// NewForecastSnapshotStore creates a new in-memory snapshot store.
func NewForecastSnapshotStore() *ForecastSnapshotStore {
	return &ForecastSnapshotStore{}
}

// InsertBulk appends all rows of a single run.
func (s *ForecastSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.ForecastSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		cp := *snap
		s.data = append(s.data, &cp)
	}
	return nil
}

// GetByRunID retrieves all rows for a run, ordered by (date, category) ASC.
func (s *ForecastSnapshotStore) GetByRunID(_ context.Context, runID string) ([]*domain.ForecastSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ForecastSnapshot
	for _, snap := range s.data {
		if snap.RunID == runID {
			cp := *snap
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

// CountAll returns the total number of snapshot rows.
func (s *ForecastSnapshotStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

// GetRecentRuns retrieves the most recent distinct run IDs, newest first.
func (s *ForecastSnapshotStore) GetRecentRuns(_ context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	newest := make(map[string]int64)
	for _, snap := range s.data {
		if ts, ok := newest[snap.RunID]; !ok || snap.GeneratedAtMs > ts {
			newest[snap.RunID] = snap.GeneratedAtMs
		}
	}

	runs := make([]string, 0, len(newest))
	for id := range newest {
		runs = append(runs, id)
	}
	sort.Slice(runs, func(i, j int) bool {
		if newest[runs[i]] != newest[runs[j]] {
			return newest[runs[i]] > newest[runs[j]]
		}
		return runs[i] < runs[j]
	})

	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
