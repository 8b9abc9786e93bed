package domain

import "time"

// Period is an inclusive calendar date range.
// Invariant: Start <= End. Construct via NewPeriod, which repairs
// reversed input instead of rejecting it.
type Period struct {
	Start time.Time // first day, UTC midnight
	End   time.Time // last day, UTC midnight
}

// NewPeriod builds a period from two days, swapping them when reversed.
// The returned bool reports whether a swap was applied so callers can
// log the correction.
func NewPeriod(start, end time.Time) (Period, bool) {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return Period{Start: e, End: s}, true
	}
	return Period{Start: s, End: e}, false
}

// Days returns the inclusive day count of the period.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

// Dates returns every calendar day of the period in ascending order.
func (p Period) Dates() []time.Time {
	n := p.Days()
	dates := make([]time.Time, 0, n)
	for d := p.Start; !d.After(p.End); d = AddDays(d, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether day t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Preceding returns the period of identical length that ends the day
// before p starts. Used for historical baseline comparisons.
func (p Period) Preceding() Period {
	n := p.Days()
	end := AddDays(p.Start, -1)
	return Period{Start: AddDays(end, -(n - 1)), End: end}
}

// Summary returns the wire form of the period.
func (p Period) Summary() PeriodSummary {
	return PeriodSummary{
		Start: FormatDay(p.Start),
		End:   FormatDay(p.End),
		Days:  p.Days(),
	}
}

// String renders the period as "YYYY-MM-DD..YYYY-MM-DD".
func (p Period) String() string {
	return FormatDay(p.Start) + ".." + FormatDay(p.End)
}
