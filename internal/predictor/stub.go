package predictor

import (
	"context"
	"fmt"

	"categoryforecast/internal/features"
)

// Stub is a deterministic in-process predictor for development and
// tests. It forecasts each category as its 7-day rolling average,
// falling back to the 1-day lag when the manifest lacks the rolling
// column. No model artifact is required.
type Stub struct {
	categories []string
}

var _ Predictor = (*Stub)(nil)

// NewStub creates a stub predictor over the target-category list.
func NewStub(categories []string) *Stub {
	return &Stub{categories: categories}
}

// Available always reports true: the stub needs no loaded model.
func (s *Stub) Available() bool {
	return true
}

// Predict maps each input row to one amount per target category.
func (s *Stub) Predict(_ context.Context, columns []string, rows [][]float64) ([][]float64, error) {
	if len(s.categories) == 0 {
		return nil, fmt.Errorf("stub predictor has no target categories")
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(s.categories))
		for j, category := range s.categories {
			if idx, ok := index[features.RollingAvgColumn(category, 7)]; ok && idx < len(row) {
				vec[j] = row[idx]
				continue
			}
			if idx, ok := index[features.LagColumn(category, 1)]; ok && idx < len(row) {
				vec[j] = row[idx]
			}
		}
		out[i] = vec
	}
	return out, nil
}
