package calendar

import (
	"fmt"
	"sort"
	"time"
)

// span expands a possibly wildcard argument into an inclusive range. It
// reports false for an explicit value above limit.
func span(v, limit int) (lo, hi int, ok bool) {
	if v <= 0 {
		return 1, limit, true
	}
	if v > limit {
		return 0, 0, false
	}
	return v, v, true
}

// TibetanToGregorian returns every Gregorian date for a Tibetan date. Each
// argument may be Wildcard. A skipped day yields a pair without a Gregorian
// date; a doubled day yields two pairs on consecutive days. Month numbers
// without a descriptor, and explicit values outside the table's span,
// contribute nothing.
func (t *Table) TibetanToGregorian(rabjung, year, month, day int) []DatePair {
	pairs := make([]DatePair, 0)

	rLo, rHi, ok1 := span(rabjung, LastRabjung)
	yLo, yHi, ok2 := span(year, YearsPerCycle)
	mLo, mHi, ok3 := span(month, MonthsPerYear)
	dLo, dHi, ok4 := span(day, DaysPerMonth)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return pairs
	}

	for r := rLo; r <= rHi; r++ {
		for y := yLo; y <= yHi; y++ {
			for m := mLo; m <= mHi; m++ {
				for flag := MonthNormal; flag <= MonthSecondOfDouble; flag++ {
					i, found := t.index[MonthKey{Rabjung: r, Year: y, Month: m, Flag: flag}]
					if !found {
						continue
					}
					md := t.months[i]
					for d := dLo; d <= dHi; d++ {
						pairs = appendDay(pairs, md, d)
					}
				}
			}
		}
	}
	return pairs
}

// appendDay appends the pairs for one day of a month.
func appendDay(pairs []DatePair, md MonthDescriptor, day int) []DatePair {
	td := TibetanDate{
		Rabjung:   md.Rabjung,
		Year:      md.Year,
		Month:     md.Month,
		MonthFlag: md.Flag,
		Day:       day,
	}

	if day == md.Skip1 || day == md.Skip2 {
		td.Skipped = true
		return append(pairs, DatePair{Tibetan: td})
	}

	date := AddDays(md.WesternStartDate, dayOffset(md, day))
	if day == md.Double1 || day == md.Double2 {
		second := AddDays(date, 1)
		first := td
		first.DoubleDay = DayFirstOccurrence
		td.DoubleDay = DaySecondOccurrence
		return append(pairs,
			DatePair{Tibetan: first, Gregorian: &date},
			DatePair{Tibetan: td, Gregorian: &second})
	}
	return append(pairs, DatePair{Tibetan: td, Gregorian: &date})
}

// dayOffset is the number of real days between day 1 and day: one less
// for each earlier skipped day, one more for each earlier doubled day.
func dayOffset(md MonthDescriptor, day int) int {
	n := day - 1
	for _, s := range []int{md.Skip1, md.Skip2} {
		if s != 0 && day > s {
			n--
		}
	}
	for _, d := range []int{md.Double1, md.Double2} {
		if d != 0 && day > d {
			n++
		}
	}
	return n
}

// GregorianToTibetan returns the Tibetan date for a Gregorian date. The
// time of day is ignored. Dates outside the table's span return ErrNotFound.
func (t *Table) GregorianToTibetan(date time.Time) (TibetanDate, error) {
	d := stripTime(date)
	if d.Before(t.FirstDate()) || d.After(t.LastDate()) {
		return TibetanDate{}, fmt.Errorf("%w: %s is outside %s..%s",
			ErrNotFound, FormatDate(d), FormatDate(t.FirstDate()), FormatDate(t.LastDate()))
	}

	// Last month starting on or before d.
	i := sort.Search(len(t.months), func(i int) bool {
		return t.months[i].WesternStartDate.After(d)
	}) - 1
	if i < 0 {
		return TibetanDate{}, fmt.Errorf("%w: no month starts on or before %s", ErrNotFound, FormatDate(d))
	}
	md := t.months[i]

	diff, err := DayDifference(d, md.WesternStartDate)
	if err != nil {
		return TibetanDate{}, err
	}

	return dayAtOffset(md, diff)
}

// dayAtOffset finds the day reached offset real days after the start of a
// month. It walks the same layout as dayOffset: skipped days take no real
// day and doubled days take two.
func dayAtOffset(md MonthDescriptor, offset int) (TibetanDate, error) {
	td := TibetanDate{
		Rabjung:   md.Rabjung,
		Year:      md.Year,
		Month:     md.Month,
		MonthFlag: md.Flag,
	}

	for day := 1; day <= DaysPerMonth; day++ {
		switch {
		case day == md.Skip1 || day == md.Skip2:
			continue
		case day == md.Double1 || day == md.Double2:
			if offset <= 1 {
				td.Day = day
				td.DoubleDay = DayFirstOccurrence + DoubleDayFlag(offset)
				return td, nil
			}
			offset -= 2
		default:
			if offset == 0 {
				td.Day = day
				return td, nil
			}
			offset--
		}
	}
	return TibetanDate{}, fmt.Errorf("%w: offset past the end of month %s", ErrInvariant, md.Key())
}

// GregorianRangeToTibetan converts every date from start to end inclusive.
func (t *Table) GregorianRangeToTibetan(start, end time.Time) ([]TibetanDate, error) {
	start, end = stripTime(start), stripTime(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s before start %s", ErrOutOfRange, FormatDate(end), FormatDate(start))
	}

	var out []TibetanDate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		td, err := t.GregorianToTibetan(d)
		if err != nil {
			return nil, err
		}
		out = append(out, td)
	}
	return out, nil
}
