package api

import (
	"fmt"
	"log"
	"time"

	"categoryforecast/internal/domain"
)

// Range preset lengths in days, trailing windows ending today.
const (
	presetWeekDays    = 7
	presetMonthDays   = 30
	presetQuarterDays = 90
	presetYearDays    = 365
)

// parsePeriod builds a period from raw date strings. Malformed or
// absent dates fall back to a default window instead of failing, and a
// reversed range is swapped; both repairs are logged, never rejected.
func parsePeriod(startRaw, endRaw string, fallback domain.Period) domain.Period {
	start, errStart := domain.ParseDay(startRaw)
	end, errEnd := domain.ParseDay(endRaw)

	if errStart != nil || errEnd != nil {
		log.Printf("[api] invalid date range (%q, %q), using default window %s", startRaw, endRaw, fallback)
		return fallback
	}

	period, swapped := domain.NewPeriod(start, end)
	if swapped {
		log.Printf("[api] reversed date range corrected to %s", period)
	}
	return period
}

// trailingWindow is the n-day period ending on day.
func trailingWindow(day time.Time, n int) domain.Period {
	end := domain.Day(day)
	return domain.Period{Start: domain.AddDays(end, -(n - 1)), End: end}
}

// forwardWindow is the n-day period starting on day.
func forwardWindow(day time.Time, n int) domain.Period {
	start := domain.Day(day)
	return domain.Period{Start: start, End: domain.AddDays(start, n-1)}
}

// resolvePreset maps a range preset onto a concrete period. Presets are
// trailing windows ending today; "custom" requires both dates and falls
// back to the month window when they are missing or malformed.
func resolvePreset(preset, startRaw, endRaw string, today time.Time) (domain.Period, error) {
	switch preset {
	case "week":
		return trailingWindow(today, presetWeekDays), nil
	case "month", "":
		return trailingWindow(today, presetMonthDays), nil
	case "quarter":
		return trailingWindow(today, presetQuarterDays), nil
	case "year":
		return trailingWindow(today, presetYearDays), nil
	case "custom":
		return parsePeriod(startRaw, endRaw, trailingWindow(today, presetMonthDays)), nil
	default:
		return domain.Period{}, fmt.Errorf("unknown range preset %q", preset)
	}
}
