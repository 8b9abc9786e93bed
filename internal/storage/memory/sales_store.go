package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

// SalesStore is an in-memory implementation of storage.SalesStore.
type SalesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SalesPoint // keyed by "date|category"
}

// NewSalesStore creates a new in-memory sales store.
func NewSalesStore() *SalesStore {
	return &SalesStore{
		data: make(map[string]*domain.SalesPoint),
	}
}

// Insert adds a new point. Returns ErrDuplicateKey if (date, category) exists.
func (s *SalesStore) Insert(_ context.Context, p *domain.SalesPoint) error {
	if p == nil || p.Category == "" || p.Date.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Date = domain.Day(p.Date)
	key := cp.Key()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[key] = &cp
	return nil
}

// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
func (s *SalesStore) InsertBulk(_ context.Context, points []*domain.SalesPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(points))

	// First pass: check for duplicates (existing + intra-batch)
	normalized := make([]*domain.SalesPoint, 0, len(points))
	for _, p := range points {
		if p == nil || p.Category == "" || p.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		cp := *p
		cp.Date = domain.Day(p.Date)
		key := cp.Key()

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
		normalized = append(normalized, &cp)
	}

	// Second pass: insert all
	for _, p := range normalized {
		s.data[p.Key()] = p
	}

	return nil
}

// GetByDateRange retrieves all points with date in [start, end] (inclusive),
// ordered by (date, category) ASC.
func (s *SalesStore) GetByDateRange(_ context.Context, start, end time.Time) ([]*domain.SalesPoint, error) {
	from, to := domain.Day(start), domain.Day(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SalesPoint
	for _, p := range s.data {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

// GetDates retrieves the distinct dates with at least one point in
// [start, end] (inclusive), ordered ASC.
func (s *SalesStore) GetDates(_ context.Context, start, end time.Time) ([]time.Time, error) {
	from, to := domain.Day(start), domain.Day(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[time.Time]struct{})
	for _, p := range s.data {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		seen[p.Date] = struct{}{}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

// CountAll returns the total number of recorded points.
func (s *SalesStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}
