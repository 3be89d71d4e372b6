package expense

import "time"

// RangeSelector is a partially specified calendar selector for bulk
// deletion. Month and Day are 1-based. A nil Year selects everything;
// a Day without a Month is ignored.
type RangeSelector struct {
	Year  *int
	Month *int
	Day   *int
}

// Bounds derives the half-open UTC interval [start, end) the selector
// covers. When all is true the selector covers the whole table and
// start/end are meaningless.
//
// Year only selects the whole calendar year. Year and month select the
// calendar month, rolling into the next year after December. Year,
// month and day select exactly 24 hours (86,400,000 ms) from the UTC
// start of that day. A record dated exactly at start is inside the
// interval; one dated exactly at end is not.
func (s RangeSelector) Bounds() (start, end time.Time, all bool) {
	if s.Year == nil {
		return time.Time{}, time.Time{}, true
	}

	year := *s.Year
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch {
	case s.Month == nil:
		end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	case s.Day == nil:
		month := time.Month(*s.Month)
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes month 13 into January of the next year
		end = time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	default:
		start = time.Date(year, time.Month(*s.Month), *s.Day, 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
	}

	return start, end, false
}

// SelectorFromParts builds a RangeSelector from optional values, dropping
// a day that arrives without a month.
func SelectorFromParts(year, month, day *int) RangeSelector {
	if month == nil {
		day = nil
	}
	return RangeSelector{Year: year, Month: month, Day: day}
}
