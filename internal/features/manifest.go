package features

import (
	"encoding/json"
	"fmt"
	"os"

	"categoryforecast/internal/domain"
)

// Default lag offsets and rolling windows, in days. Used when building
// a manifest from scratch; a loaded model artifact overrides both via
// its column list.
var (
	DefaultLagDays        = []int{1, 7, 14, 28}
	DefaultRollingWindows = []int{7, 14, 28}
)

// LoadManifest reads a feature manifest from a model artifact JSON file.
// The file is written at training time next to the model itself.
func LoadManifest(path string) (*domain.FeatureManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m domain.FeatureManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if err := ValidateManifest(&m); err != nil {
		return nil, fmt.Errorf("validate manifest %s: %w", path, err)
	}
	return &m, nil
}

// ValidateManifest checks the structural invariants a manifest must
// hold before it can drive synthesis and prediction.
func ValidateManifest(m *domain.FeatureManifest) error {
	if len(m.Columns) == 0 {
		return fmt.Errorf("manifest has no feature columns")
	}
	if len(m.Categories) == 0 {
		return fmt.Errorf("manifest has no target categories")
	}

	seen := make(map[string]struct{}, len(m.Columns))
	for _, col := range m.Columns {
		if col == "" {
			return fmt.Errorf("manifest contains an empty column name")
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("manifest column %q appears twice", col)
		}
		seen[col] = struct{}{}
	}
	return nil
}

// DefaultManifest builds the canonical manifest for a category list:
// calendar columns first, then per category its lag columns ascending,
// rolling means ascending, and rolling stds ascending. This is the
// column layout the bundled training pipeline emits.
func DefaultManifest(categories []string) *domain.FeatureManifest {
	columns := make([]string, 0, len(CalendarColumns)+len(categories)*(len(DefaultLagDays)+2*len(DefaultRollingWindows)))
	columns = append(columns, CalendarColumns...)

	for _, c := range categories {
		for _, lag := range DefaultLagDays {
			columns = append(columns, LagColumn(c, lag))
		}
		for _, w := range DefaultRollingWindows {
			columns = append(columns, RollingAvgColumn(c, w))
		}
		for _, w := range DefaultRollingWindows {
			columns = append(columns, RollingStdColumn(c, w))
		}
	}

	cats := make([]string, len(categories))
	copy(cats, categories)

	return &domain.FeatureManifest{
		Columns:    columns,
		Categories: cats,
	}
}
