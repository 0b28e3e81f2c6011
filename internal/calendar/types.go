// Package calendar implements the Tibetan Phugpa calendar and its conversion
// to and from Gregorian dates.
//
// A Table of month descriptors is built once with Build and is read-only
// afterwards, so it may be shared between goroutines without locking.
package calendar

import (
	"fmt"
	"time"
)

// Supported span of the month table.
const (
	FirstRabjung  = 1
	LastRabjung   = 20
	YearsPerCycle = 60
	MonthsPerYear = 12
	DaysPerMonth  = 30
)

// Wildcard stands for "every value" in TibetanToGregorian. Any non-positive
// argument is treated the same way.
const Wildcard = -1

// MonthFlag marks whether a month is one half of a double month.
type MonthFlag int

const (
	MonthNormal MonthFlag = iota
	MonthFirstOfDouble
	MonthSecondOfDouble
)

// String returns a short label for the flag.
func (f MonthFlag) String() string {
	switch f {
	case MonthNormal:
		return "normal"
	case MonthFirstOfDouble:
		return "first"
	case MonthSecondOfDouble:
		return "second"
	default:
		return fmt.Sprintf("MonthFlag(%d)", int(f))
	}
}

// Valid reports whether f is one of the three defined flags.
func (f MonthFlag) Valid() bool {
	return f >= MonthNormal && f <= MonthSecondOfDouble
}

// DoubleDayFlag marks the first or second occurrence of a doubled day.
type DoubleDayFlag int

const (
	DayNormal DoubleDayFlag = iota
	DayFirstOccurrence
	DaySecondOccurrence
)

// MonthKey identifies one month descriptor.
type MonthKey struct {
	Rabjung int
	Year    int
	Month   int
	Flag    MonthFlag
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%d/%d/%d/%d", k.Rabjung, k.Year, k.Month, k.Flag)
}

// MonthDescriptor describes a single Tibetan month.
//
// Skip and double positions are day numbers 1..30, zero when unset.
type MonthDescriptor struct {
	Rabjung           int
	Year              int
	Month             int
	Flag              MonthFlag
	ElapsedMonthIndex int
	Skip1             int
	Skip2             int
	Double1           int
	Double2           int
	WesternStartDate  time.Time
}

// Key returns the lookup key of the descriptor.
func (m MonthDescriptor) Key() MonthKey {
	return MonthKey{Rabjung: m.Rabjung, Year: m.Year, Month: m.Month, Flag: m.Flag}
}

// Length returns the number of real days in the month: 30 less one for each
// skipped day that is not balanced by a doubled day.
func (m MonthDescriptor) Length() int {
	n := DaysPerMonth
	if m.Skip1 != 0 && m.Double1 == 0 {
		n--
	}
	if m.Skip2 != 0 && m.Double2 == 0 {
		n--
	}
	return n
}

// LastDate returns the Gregorian date of the final day of the month.
func (m MonthDescriptor) LastDate() time.Time {
	return AddDays(m.WesternStartDate, m.Length()-1)
}

// String renders the descriptor as one tab-separated row.
func (m MonthDescriptor) String() string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s",
		m.Rabjung, m.Year, m.Month, m.Flag, m.ElapsedMonthIndex,
		m.Skip1, m.Skip2, m.Double1, m.Double2, FormatDate(m.WesternStartDate))
}

// TibetanDate is a single day in the Tibetan calendar. Two values are equal
// when all fields match, so TibetanDate can be compared with ==.
type TibetanDate struct {
	Rabjung   int
	Year      int
	Month     int
	MonthFlag MonthFlag
	Day       int
	Skipped   bool
	DoubleDay DoubleDayFlag
}

// MonthKey returns the key of the month containing the date.
func (d TibetanDate) MonthKey() MonthKey {
	return MonthKey{Rabjung: d.Rabjung, Year: d.Year, Month: d.Month, Flag: d.MonthFlag}
}

func (d TibetanDate) String() string {
	return fmt.Sprintf("rabjung %d, year %d, month %d (flag %d), day %d, skipped %t, double %d",
		d.Rabjung, d.Year, d.Month, d.MonthFlag, d.Day, d.Skipped, d.DoubleDay)
}

// DatePair joins a Tibetan date with its Gregorian date. Gregorian is nil for
// a skipped day.
type DatePair struct {
	Tibetan   TibetanDate
	Gregorian *time.Time
}

// ParseDateString parses a date string in YYYY-MM-DD format.
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

func stripTime(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
