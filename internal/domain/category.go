package domain

// CategoryInfo is one catalog entry for a tracked product category.
// Corresponds to categories table in PostgreSQL.
type CategoryInfo struct {
	Name         string // unique category name
	DisplayOrder int    // catalog ordering, ascending
}
