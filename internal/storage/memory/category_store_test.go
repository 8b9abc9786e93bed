package memory

import (
	"context"
	"errors"
	"testing"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/storage"
)

func TestCategoryStore_UpsertKeepsExisting(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, &domain.CategoryInfo{Name: "Electronics", DisplayOrder: 1}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, &domain.CategoryInfo{Name: "Electronics", DisplayOrder: 99}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(all))
	}
	if all[0].DisplayOrder != 1 {
		t.Errorf("Expected original display order 1, got %d", all[0].DisplayOrder)
	}
}

func TestCategoryStore_Ordering(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	cats := []*domain.CategoryInfo{
		{Name: "Toys", DisplayOrder: 2},
		{Name: "Books", DisplayOrder: 1},
		{Name: "Beauty", DisplayOrder: 2},
	}
	for _, c := range cats {
		if err := store.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	names, err := store.Names(ctx)
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}

	want := []string{"Books", "Beauty", "Toys"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("Position %d: expected %s, got %s", i, w, names[i])
		}
	}
}

func TestCategoryStore_GetByName(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, &domain.CategoryInfo{Name: "Books", DisplayOrder: 3}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	c, err := store.GetByName(ctx, "Books")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if c.DisplayOrder != 3 {
		t.Errorf("Expected display order 3, got %d", c.DisplayOrder)
	}

	if _, err := store.GetByName(ctx, "Missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCategoryStore_InvalidInput(t *testing.T) {
	store := NewCategoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil category, got %v", err)
	}
	if err := store.Upsert(ctx, &domain.CategoryInfo{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty name, got %v", err)
	}
}
