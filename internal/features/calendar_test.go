package features

import (
	"testing"
	"time"
)

func TestCalendarFeatures_Weekday(t *testing.T) {
	// 2025-01-06 is a Monday
	vals := calendarFeatures(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

	if vals[ColYear] != 2025 {
		t.Errorf("expected year 2025, got %v", vals[ColYear])
	}
	if vals[ColMonth] != 1 {
		t.Errorf("expected month 1, got %v", vals[ColMonth])
	}
	if vals[ColDayOfWeek] != 0 {
		t.Errorf("expected day_of_week 0 for Monday, got %v", vals[ColDayOfWeek])
	}
	if vals[ColIsWeekend] != 0 {
		t.Errorf("expected is_weekend 0, got %v", vals[ColIsWeekend])
	}
	if vals[ColQuarter] != 1 {
		t.Errorf("expected quarter 1, got %v", vals[ColQuarter])
	}
	// ISO week 2 of 2025 starts on Jan 6
	if vals[ColWeekOfYear] != 2 {
		t.Errorf("expected week_of_year 2, got %v", vals[ColWeekOfYear])
	}
}

func TestCalendarFeatures_Weekend(t *testing.T) {
	// 2025-01-05 is a Sunday
	vals := calendarFeatures(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	if vals[ColDayOfWeek] != 6 {
		t.Errorf("expected day_of_week 6 for Sunday, got %v", vals[ColDayOfWeek])
	}
	if vals[ColIsWeekend] != 1 {
		t.Errorf("expected is_weekend 1, got %v", vals[ColIsWeekend])
	}
}

func TestCalendarFeatures_MonthBoundaries(t *testing.T) {
	start := calendarFeatures(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if start[ColIsMonthStart] != 1 || start[ColIsMonthEnd] != 0 {
		t.Errorf("Feb 1: expected start=1 end=0, got start=%v end=%v",
			start[ColIsMonthStart], start[ColIsMonthEnd])
	}

	end := calendarFeatures(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	if end[ColIsMonthEnd] != 1 || end[ColIsMonthStart] != 0 {
		t.Errorf("Feb 28: expected end=1 start=0, got end=%v start=%v",
			end[ColIsMonthEnd], end[ColIsMonthStart])
	}

	// Leap year: Feb 28 2024 is not month end
	leap := calendarFeatures(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC))
	if leap[ColIsMonthEnd] != 0 {
		t.Errorf("Feb 28 2024: expected is_month_end 0 in a leap year, got %v", leap[ColIsMonthEnd])
	}
}

func TestCalendarFeatures_November(t *testing.T) {
	nov := calendarFeatures(time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC))
	if nov[ColIsNovember] != 1 {
		t.Errorf("expected is_november 1, got %v", nov[ColIsNovember])
	}
	if nov[ColQuarter] != 4 {
		t.Errorf("expected quarter 4, got %v", nov[ColQuarter])
	}

	dec := calendarFeatures(time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC))
	if dec[ColIsNovember] != 0 {
		t.Errorf("expected is_november 0 in December, got %v", dec[ColIsNovember])
	}
}
