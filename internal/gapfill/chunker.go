// Package gapfill reconciles partially recorded periods.
// It detects missing dates in a requested window, predicts them in
// contiguous chunks, and merges predicted rows with recorded history
// under provenance tags.
package gapfill

import (
	"sort"
	"time"

	"categoryforecast/internal/domain"
)

// ChunkDates partitions a set of dates into maximal contiguous runs,
// returned as inclusive periods in ascending order. Input order does not
// matter and duplicates are ignored. The union of the returned periods'
// days equals the input set exactly.
func ChunkDates(dates []time.Time) []domain.Period {
	if len(dates) == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, domain.Day(d))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var chunks []domain.Period
	start := days[0]
	prev := days[0]
	for _, d := range days[1:] {
		if d.Equal(prev) {
			continue
		}
		if d.Equal(domain.AddDays(prev, 1)) {
			prev = d
			continue
		}
		// Gap of more than one day closes the current chunk.
		chunks = append(chunks, domain.Period{Start: start, End: prev})
		start = d
		prev = d
	}
	chunks = append(chunks, domain.Period{Start: start, End: prev})

	return chunks
}

// MissingDates returns the dates of period absent from recorded, in
// ascending order. Recorded dates outside the period are ignored.
func MissingDates(period domain.Period, recorded []time.Time) []time.Time {
	have := make(map[string]bool, len(recorded))
	for _, d := range recorded {
		have[domain.FormatDay(d)] = true
	}

	var missing []time.Time
	for _, d := range period.Dates() {
		if !have[domain.FormatDay(d)] {
			missing = append(missing, d)
		}
	}
	return missing
}
