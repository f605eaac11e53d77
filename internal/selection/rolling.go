package selection

import (
	"fmt"
	"time"
)

const (
	PatternPrevMonth26ToCurr25 = "prev_month_26_to_curr_25"
	PatternPrevMonthFull       = "prev_month_full"
	PatternCurrMonth1To25      = "curr_month_1_to_25"
	PatternPrev15Days          = "prev_15_days"
	PatternLast30Days          = "last_30_days"
	PatternCustom              = "custom"
)

// RollingPatterns lists the built-in patterns in display order.
var RollingPatterns = []string{
	PatternPrevMonth26ToCurr25,
	PatternPrevMonthFull,
	PatternCurrMonth1To25,
	PatternPrev15Days,
	PatternLast30Days,
	PatternCustom,
}

// RollingRange computes the window a rolling pattern covers when evaluated
// at ref. Bounds are whole days: from starts at 00:00:00 and to ends at
// 23:59:59 in ref's location. The custom pattern takes a day of the
// previous month and a day of the current month, clamped to the month end.
func RollingRange(pattern string, ref time.Time, offsetFrom, offsetTo *int) (time.Time, time.Time, error) {
	loc := ref.Location()
	year, month, _ := ref.Date()
	prevYear, prevMonth, _ := time.Date(year, month-1, 1, 0, 0, 0, 0, loc).Date()

	switch pattern {
	case PatternPrevMonth26ToCurr25:
		return dayStart(prevYear, prevMonth, 26, loc), dayEnd(year, month, 25, loc), nil

	case PatternPrevMonthFull:
		return dayStart(prevYear, prevMonth, 1, loc), dayEnd(prevYear, prevMonth, daysIn(prevYear, prevMonth), loc), nil

	case PatternCurrMonth1To25:
		return dayStart(year, month, 1, loc), dayEnd(year, month, 25, loc), nil

	case PatternPrev15Days:
		return daysBack(ref, 15), dayEnd(year, month, ref.Day(), loc), nil

	case PatternLast30Days:
		return daysBack(ref, 30), dayEnd(year, month, ref.Day(), loc), nil

	case PatternCustom:
		if offsetFrom == nil || offsetTo == nil {
			return time.Time{}, time.Time{}, fmt.Errorf("custom rolling pattern needs date_offset_from and date_offset_to")
		}
		if *offsetFrom < 1 || *offsetTo < 1 {
			return time.Time{}, time.Time{}, fmt.Errorf("custom rolling offsets must be positive days, got %d and %d", *offsetFrom, *offsetTo)
		}
		fromDay := min(*offsetFrom, daysIn(prevYear, prevMonth))
		toDay := min(*offsetTo, daysIn(year, month))
		return dayStart(prevYear, prevMonth, fromDay, loc), dayEnd(year, month, toDay, loc), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("unknown rolling pattern: %s", pattern)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayStart(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func dayEnd(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 0, loc)
}

func daysBack(ref time.Time, n int) time.Time {
	y, m, d := ref.AddDate(0, 0, -n).Date()
	return dayStart(y, m, d, ref.Location())
}
