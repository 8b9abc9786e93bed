// Package ranking turns aggregated per-category amounts into ranked,
// percentage-annotated, display-ready category totals.
package ranking

import (
	"sort"

	"categoryforecast/internal/domain"
)

// TopCategories returns the top n categories by amount descending,
// ties broken by category name ascending. Each entry's percentage is
// its share of the grand total over ALL categories, not just the top
// n, so truncation never inflates shares. A zero grand total yields
// zero percentages everywhere.
func TopCategories(totals map[string]float64, n int) []domain.CategoryTotal {
	if n <= 0 || len(totals) == 0 {
		return []domain.CategoryTotal{}
	}

	grand := GrandTotal(totals)

	entries := make([]domain.CategoryTotal, 0, len(totals))
	for name, amount := range totals {
		entries = append(entries, domain.CategoryTotal{Category: name, Amount: amount})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Category < entries[j].Category
	})

	if n < len(entries) {
		entries = entries[:n]
	}

	for i := range entries {
		pct := 0.0
		if grand != 0 {
			pct = entries[i].Amount / grand * 100
		}
		entries[i].Percentage = pct
		entries[i].FormattedAmount = FormatCurrency(entries[i].Amount)
		entries[i].FormattedPercentage = FormatPercentage(pct)
	}

	return entries
}

// GrandTotal sums amounts over every category.
func GrandTotal(totals map[string]float64) float64 {
	sum := 0.0
	for _, amount := range totals {
		sum += amount
	}
	return sum
}

// Growth computes the growth rate of current against baseline as a
// percentage. A zero baseline with positive current has no finite
// rate and is marked Undefined; a zero baseline with zero (or
// negative) current is zero growth.
func Growth(current, baseline float64) domain.GrowthRate {
	if baseline == 0 {
		if current > 0 {
			return domain.GrowthRate{Undefined: true, Formatted: "inf%"}
		}
		zero := 0.0
		return domain.GrowthRate{Percentage: &zero, Formatted: FormatPercentage(0)}
	}
	pct := (current - baseline) / baseline * 100
	return domain.GrowthRate{Percentage: &pct, Formatted: FormatPercentage(pct)}
}
