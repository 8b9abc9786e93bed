package domain

import "time"

// DayFormat is the canonical wire and storage format for calendar days.
const DayFormat = "2006-01-02"

// Day normalizes a timestamp to its calendar day at UTC midnight.
// All per-day data in the system is keyed on this normalized form.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC-midnight day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// AddDays returns the day n calendar days after t (negative n goes back).
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the inclusive day count from start to end.
// Returns 0 when end precedes start.
func DaysBetween(start, end time.Time) int {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
