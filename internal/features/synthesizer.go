package features

import (
	"strconv"
	"strings"
	"time"

	"categoryforecast/internal/domain"
)

// Feature column name markers. Lag and rolling columns are parsed from
// the manifest by name, so the manifest alone decides which lags and
// windows exist.
const (
	lagMarker        = "_lag_"
	rollingAvgMarker = "_rolling_avg_"
	rollingStdMarker = "_rolling_std_"
)

// LagColumn builds the canonical lag feature name for a category.
func LagColumn(category string, days int) string {
	return category + lagMarker + strconv.Itoa(days)
}

// RollingAvgColumn builds the canonical rolling-mean feature name.
func RollingAvgColumn(category string, window int) string {
	return category + rollingAvgMarker + strconv.Itoa(window) + "d"
}

// RollingStdColumn builds the canonical rolling-std feature name.
func RollingStdColumn(category string, window int) string {
	return category + rollingStdMarker + strconv.Itoa(window) + "d"
}

// Synthesizer builds per-day feature vectors for a date range, in
// strict chronological order. Later days may reference values for
// earlier days of the same run: each day's row is committed to the
// shared working buffer before the next day is synthesized.
//
// The synthesizer is driven entirely by the manifest: calendar columns
// are computed from the date, lag and rolling columns are parsed from
// their names, and any column it does not recognize is zero-filled.
type Synthesizer struct {
	manifest *domain.FeatureManifest
	seed     float64 // value committed for synthesized days (cold-start default)
}

// NewSynthesizer creates a synthesizer for a loaded manifest.
// The seed default is 0.0: an explicit, deterministic stand-in for a
// day with no recorded value.
func NewSynthesizer(manifest *domain.FeatureManifest) *Synthesizer {
	return &Synthesizer{manifest: manifest, seed: 0.0}
}

// WithSeedValue overrides the committed value for synthesized days.
func (s *Synthesizer) WithSeedValue(v float64) *Synthesizer {
	s.seed = v
	return s
}

// SynthesizeRange produces one feature vector per day of the period.
// history seeds the combined view; it may include days inside the
// period (recorded values always win over the synthesized seed).
func (s *Synthesizer) SynthesizeRange(period domain.Period, history []*domain.SalesPoint) []*domain.FeatureVector {
	buf := newWorkingBuffer(history)
	days := period.Dates()

	vectors := make([]*domain.FeatureVector, 0, len(days))
	for _, day := range days {
		row := s.buildRow(day, buf)
		vectors = append(vectors, row)
		// Commit before the next day so its lag/rolling lookups see
		// this day as present in the combined view.
		buf.commit(day, s.manifest.Categories, s.seed)
	}
	return vectors
}

// Matrix projects vectors onto the manifest column order, zero-filling
// manifest columns absent from a vector. The result is the exact input
// shape the predictor contract requires.
func (s *Synthesizer) Matrix(vectors []*domain.FeatureVector) [][]float64 {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Row(s.manifest.Columns)
	}
	return rows
}

// buildRow synthesizes the feature vector for one day against the
// current state of the working buffer.
func (s *Synthesizer) buildRow(day time.Time, buf *workingBuffer) *domain.FeatureVector {
	values := calendarFeatures(day)

	for _, col := range s.manifest.Columns {
		if _, done := values[col]; done {
			continue
		}

		switch {
		case strings.Contains(col, lagMarker):
			category, lagDays, ok := splitFeatureColumn(col, lagMarker)
			if !ok {
				values[col] = 0.0
				continue
			}
			v, present := buf.valueAt(category, domain.AddDays(day, -lagDays))
			if !present {
				v = 0.0
			}
			values[col] = v

		case strings.Contains(col, rollingAvgMarker):
			category, window, ok := splitFeatureColumn(col, rollingAvgMarker)
			if !ok {
				values[col] = 0.0
				continue
			}
			values[col] = computeMean(windowValues(buf, category, day, window))

		case strings.Contains(col, rollingStdMarker):
			category, window, ok := splitFeatureColumn(col, rollingStdMarker)
			if !ok {
				values[col] = 0.0
				continue
			}
			values[col] = computeStd(windowValues(buf, category, day, window))

		default:
			values[col] = 0.0
		}
	}

	return &domain.FeatureVector{Date: day, Values: values}
}

// windowValues gathers the values of a category for the days
// day-1 .. day-window that are present in the combined view. Fewer
// than window values is fine; absent days are excluded, not zeroed.
func windowValues(buf *workingBuffer, category string, day time.Time, window int) []float64 {
	vals := make([]float64, 0, window)
	for i := 1; i <= window; i++ {
		if v, ok := buf.valueAt(category, domain.AddDays(day, -i)); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// splitFeatureColumn splits "<category><marker><n>[d]" into its parts.
// The trailing "d" unit suffix is optional, matching both lag ("_lag_7")
// and window ("_rolling_avg_7d") forms.
func splitFeatureColumn(col, marker string) (string, int, bool) {
	idx := strings.LastIndex(col, marker)
	if idx <= 0 {
		return "", 0, false
	}
	category := col[:idx]
	spec := strings.TrimSuffix(col[idx+len(marker):], "d")
	n, err := strconv.Atoi(spec)
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return category, n, true
}
