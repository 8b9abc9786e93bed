// Package lookup provides read-side views over stored sales data.
package lookup

import (
	"errors"
	"sort"

	"categoryforecast/internal/domain"
)

// ErrNoSalesData is returned when a lookup runs against an empty slice.
var ErrNoSalesData = errors.New("no sales data available")

// BuildDailySeries pivots sales points into the per-category daily view
// of a period. Every category present in points (plus any listed in
// categories) gets one value per calendar day, with 0.0 on days it has
// no recorded amount. Points outside the period are ignored.
func BuildDailySeries(period domain.Period, points []*domain.SalesPoint, categories []string) *domain.DailySeries {
	dates := period.Dates()
	index := make(map[string]int, len(dates))
	labels := make([]string, len(dates))
	for i, d := range dates {
		key := domain.FormatDay(d)
		index[key] = i
		labels[i] = key
	}

	series := make(map[string][]float64)
	for _, c := range categories {
		series[c] = make([]float64, len(dates))
	}
	for _, p := range points {
		i, ok := index[domain.FormatDay(p.Date)]
		if !ok {
			continue
		}
		if _, tracked := series[p.Category]; !tracked {
			series[p.Category] = make([]float64, len(dates))
		}
		series[p.Category][i] = p.Amount
	}

	return &domain.DailySeries{
		Period: period.Summary(),
		Dates:  labels,
		Series: series,
	}
}

// CategoriesOf returns the distinct category names present in points,
// sorted ascending. Returns ErrNoSalesData for an empty slice.
func CategoriesOf(points []*domain.SalesPoint) ([]string, error) {
	if len(points) == 0 {
		return nil, ErrNoSalesData
	}
	seen := make(map[string]struct{})
	for _, p := range points {
		seen[p.Category] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
