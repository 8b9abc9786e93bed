package features

import (
	"time"

	"categoryforecast/internal/domain"
)

type bufferKey struct {
	day      string
	category string
}

// workingBuffer is the combined view a synthesis run reads from:
// recorded history plus the rows committed for earlier dates of the
// same run. Append-only; recorded values are never overwritten.
type workingBuffer struct {
	values map[bufferKey]float64
}

// newWorkingBuffer seeds a buffer with recorded sales points.
func newWorkingBuffer(history []*domain.SalesPoint) *workingBuffer {
	b := &workingBuffer{values: make(map[bufferKey]float64, len(history))}
	for _, p := range history {
		b.values[bufferKey{day: domain.FormatDay(p.Date), category: p.Category}] = p.Amount
	}
	return b
}

// valueAt returns the value of a category on a day and whether the
// (day, category) pair is present in the combined view at all.
func (b *workingBuffer) valueAt(category string, day time.Time) (float64, bool) {
	v, ok := b.values[bufferKey{day: domain.FormatDay(day), category: category}]
	return v, ok
}

// commit marks a synthesized day present in the combined view by
// recording the seed value for every category that has no recorded
// value on that day. Must be called after a day's row is built and
// before the next day is synthesized.
func (b *workingBuffer) commit(day time.Time, categories []string, seed float64) {
	dayKey := domain.FormatDay(day)
	for _, c := range categories {
		key := bufferKey{day: dayKey, category: c}
		if _, exists := b.values[key]; exists {
			continue // recorded value wins
		}
		b.values[key] = seed
	}
}
