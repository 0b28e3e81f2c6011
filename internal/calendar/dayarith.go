package calendar

import (
	"fmt"
	"time"
)

// maxDayDifference bounds the search in DayDifference. Consecutive month
// starts are never more than a month apart.
const maxDayDifference = 1000

// Dates from 1900 onwards need no compensation.
const compensationCutoffYear = 1900

// discontinuity is a fixed instant where traditional reckoning and the
// proleptic Gregorian calendar disagree. Crossing it shifts the result by
// shift days before the ordinary day shift is applied.
type discontinuity struct {
	at    time.Time
	shift int
}

// Forward thresholds sit on the first day after the gap. time.Date normalizes
// February 29 of a common year to March 1.
var forwardDiscontinuities = []discontinuity{
	{at: time.Date(1582, time.October, 5, 0, 0, 0, 0, time.UTC), shift: 10},
	{at: time.Date(1500, time.February, 29, 0, 0, 0, 0, time.UTC), shift: -1},
	{at: time.Date(1400, time.February, 29, 0, 0, 0, 0, time.UTC), shift: -1},
	{at: time.Date(1300, time.February, 29, 0, 0, 0, 0, time.UTC), shift: -1},
	{at: time.Date(1100, time.February, 29, 0, 0, 0, 0, time.UTC), shift: -1},
}

// Backward thresholds are checked with strict comparisons on both sides, so
// SubDays is not the exact inverse of AddDays next to a threshold.
var backwardDiscontinuities = []discontinuity{
	{at: time.Date(1582, time.October, 15, 0, 0, 0, 0, time.UTC), shift: -10},
	{at: time.Date(1500, time.February, 28, 0, 0, 0, 0, time.UTC), shift: 1},
	{at: time.Date(1400, time.February, 28, 0, 0, 0, 0, time.UTC), shift: 1},
	{at: time.Date(1300, time.February, 28, 0, 0, 0, 0, time.UTC), shift: 1},
	{at: time.Date(1100, time.February, 28, 0, 0, 0, 0, time.UTC), shift: 1},
}

// AddDays returns the date n days after d. For dates before 1900 the first
// discontinuity crossed, if any, is compensated. At most one is applied.
func AddDays(d time.Time, n int) time.Time {
	shift := 0
	if d.Year() < compensationCutoffYear {
		naive := d.AddDate(0, 0, n)
		for _, dc := range forwardDiscontinuities {
			if d.Before(dc.at) && !naive.Before(dc.at) {
				shift = dc.shift
				break
			}
		}
	}
	return d.AddDate(0, 0, shift+n)
}

// SubDays returns the date n days before d, compensating the first
// discontinuity crossed for dates before 1900.
func SubDays(d time.Time, n int) time.Time {
	shift := 0
	if d.Year() < compensationCutoffYear {
		naive := d.AddDate(0, 0, -n)
		for _, dc := range backwardDiscontinuities {
			if dc.at.Before(d) && naive.Before(dc.at) {
				shift = dc.shift
				break
			}
		}
	}
	return d.AddDate(0, 0, shift-n)
}

// DayDifference returns the smallest n >= 0 such that AddDays(earlier, n) is
// not before later, where earlier and later are a and b in date order.
func DayDifference(a, b time.Time) (int, error) {
	earlier, later := a, b
	switch {
	case a.Equal(b):
		return 0, nil
	case b.Before(a):
		earlier, later = b, a
	}

	for n := 0; n <= maxDayDifference; n++ {
		if !AddDays(earlier, n).Before(later) {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %s and %s are more than %d days apart",
		ErrInvariant, FormatDate(earlier), FormatDate(later), maxDayDifference)
}
