package features

import "time"

// Calendar feature column names. These are computed directly from the
// date and carry no per-category component.
const (
	ColYear         = "year"
	ColMonth        = "month"
	ColDayOfWeek    = "day_of_week"
	ColWeekOfYear   = "week_of_year"
	ColQuarter      = "quarter"
	ColIsWeekend    = "is_weekend"
	ColIsMonthEnd   = "is_month_end"
	ColIsMonthStart = "is_month_start"
	ColIsNovember   = "is_november"
)

// CalendarColumns lists the calendar feature names in canonical order.
var CalendarColumns = []string{
	ColYear, ColMonth, ColDayOfWeek, ColWeekOfYear, ColQuarter,
	ColIsWeekend, ColIsMonthEnd, ColIsMonthStart, ColIsNovember,
}

// calendarFeatures computes the calendar-derived scalars for a day.
// day_of_week is Monday=0..Sunday=6 and week_of_year is the ISO week,
// matching the feature pipeline the model was trained on.
func calendarFeatures(date time.Time) map[string]float64 {
	d := date.UTC()
	_, isoWeek := d.ISOWeek()
	dow := mondayWeekday(d.Weekday())

	return map[string]float64{
		ColYear:         float64(d.Year()),
		ColMonth:        float64(int(d.Month())),
		ColDayOfWeek:    float64(dow),
		ColWeekOfYear:   float64(isoWeek),
		ColQuarter:      float64((int(d.Month())-1)/3 + 1),
		ColIsWeekend:    boolFeature(dow >= 5),
		ColIsMonthEnd:   boolFeature(d.AddDate(0, 0, 1).Month() != d.Month()),
		ColIsMonthStart: boolFeature(d.Day() == 1),
		ColIsNovember:   boolFeature(d.Month() == time.November),
	}
}

// mondayWeekday converts Go's Sunday=0 weekday to Monday=0.
func mondayWeekday(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
