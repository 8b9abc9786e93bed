package memory

import (
	"context"
	"sort"
	"sync"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

// CategoryStore is an in-memory implementation of storage.CategoryStore.
type CategoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CategoryInfo // keyed by name
}

// NewCategoryStore creates a new in-memory category store.
func NewCategoryStore() *CategoryStore {
	return &CategoryStore{
		data: make(map[string]*domain.CategoryInfo),
	}
}

// Upsert inserts the category or leaves an existing row unchanged.
func (s *CategoryStore) Upsert(_ context.Context, c *domain.CategoryInfo) error {
	if c == nil || c.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.Name]; exists {
		return nil
	}
	cp := *c
	s.data[c.Name] = &cp
	return nil
}

// GetAll retrieves all categories ordered by display_order, then name.
func (s *CategoryStore) GetAll(_ context.Context) ([]*domain.CategoryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.CategoryInfo, 0, len(s.data))
	for _, c := range s.data {
		cp := *c
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// GetByName retrieves one catalog entry. Returns ErrNotFound when absent.
func (s *CategoryStore) GetByName(_ context.Context, name string) (*domain.CategoryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Names retrieves all category names in catalog order.
func (s *CategoryStore) Names(ctx context.Context) ([]string, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	return names, nil
}
