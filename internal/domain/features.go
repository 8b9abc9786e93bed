package domain

import "time"

// FeatureVector holds the synthesized model inputs for one calendar day.
// Values are keyed by feature column name; the FeatureManifest decides
// which columns reach the predictor and in what order.
type FeatureVector struct {
	Date   time.Time          // day the features describe
	Values map[string]float64 // feature name -> value
}

// Row projects the vector onto an ordered column list.
// Columns absent from the vector are filled with 0.0 and the given
// order is preserved exactly.
func (v *FeatureVector) Row(columns []string) []float64 {
	row := make([]float64, len(columns))
	for i, col := range columns {
		row[i] = v.Values[col] // missing key yields 0.0
	}
	return row
}

// FeatureManifest is the contract between feature synthesis and the
// trained predictor: the exact ordered column list the model expects,
// plus the ordered target-category list its output maps onto.
// Loaded once at startup from the model artifact and immutable after.
type FeatureManifest struct {
	Columns      []string           `json:"feature_columns"` // ordered model input columns
	Categories   []string           `json:"categories"`      // ordered prediction targets
	ModelVersion string             `json:"model_version"`
	TrainedAt    string             `json:"trained_at"`
	Metrics      map[string]float64 `json:"metrics"` // training metrics (r2, mae, ...)
}
