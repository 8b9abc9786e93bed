package postgres

import (
	"context"
	"fmt"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

// CategoryStore implements storage.CategoryStore using PostgreSQL.
type CategoryStore struct {
	pool *Pool
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(pool *Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CategoryStore = (*CategoryStore)(nil)

// Upsert inserts the category or leaves an existing row unchanged.
func (s *CategoryStore) Upsert(ctx context.Context, c *domain.CategoryInfo) error {
	query := `
		INSERT INTO categories (name, display_order)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query, c.Name, c.DisplayOrder)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// GetAll retrieves all categories ordered by display_order, then name.
func (s *CategoryStore) GetAll(ctx context.Context) ([]*domain.CategoryInfo, error) {
	query := `
		SELECT name, display_order
		FROM categories
		ORDER BY display_order ASC, name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.CategoryInfo
	for rows.Next() {
		var c domain.CategoryInfo
		if err := rows.Scan(&c.Name, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetByName retrieves one catalog entry. Returns ErrNotFound when absent.
func (s *CategoryStore) GetByName(ctx context.Context, name string) (*domain.CategoryInfo, error) {
	query := `
		SELECT name, display_order
		FROM categories
		WHERE name = $1
	`

	var c domain.CategoryInfo
	err := s.pool.QueryRow(ctx, query, name).Scan(&c.Name, &c.DisplayOrder)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return &c, nil
}

// Names retrieves all category names in catalog order.
func (s *CategoryStore) Names(ctx context.Context) ([]string, error) {
	categories, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names, nil
}
