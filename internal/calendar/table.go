package calendar

import (
	"fmt"
	"time"
)

// Table is the ordered set of month descriptors. It is immutable once Build
// returns.
type Table struct {
	months []MonthDescriptor
	index  map[MonthKey]int
	anchor int
}

// Len returns the number of month descriptors.
func (t *Table) Len() int {
	return len(t.months)
}

// Months returns a copy of all descriptors in elapsed-month order.
func (t *Table) Months() []MonthDescriptor {
	out := make([]MonthDescriptor, len(t.months))
	copy(out, t.months)
	return out
}

// At returns the descriptor at position i in table order.
func (t *Table) At(i int) (MonthDescriptor, error) {
	if i < 0 || i >= len(t.months) {
		return MonthDescriptor{}, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, i, len(t.months))
	}
	return t.months[i], nil
}

// Anchor returns the month whose start date pins the whole table.
func (t *Table) Anchor() MonthDescriptor {
	return t.months[t.anchor]
}

// FirstDate returns the Gregorian date of the first day in the table.
func (t *Table) FirstDate() time.Time {
	return t.months[0].WesternStartDate
}

// LastDate returns the Gregorian date of the last day in the table.
func (t *Table) LastDate() time.Time {
	return t.months[len(t.months)-1].LastDate()
}

// Lookup returns the descriptor for a month, if the table has one.
func (t *Table) Lookup(rabjung, year, month int, flag MonthFlag) (*MonthDescriptor, bool) {
	i, ok := t.index[MonthKey{Rabjung: rabjung, Year: year, Month: month, Flag: flag}]
	if !ok {
		return nil, false
	}
	md := t.months[i]
	return &md, true
}

// LookupMonth returns every descriptor for a month number: one for an
// ordinary month, two for a double month.
func (t *Table) LookupMonth(rabjung, year, month int) []MonthDescriptor {
	var out []MonthDescriptor
	for flag := MonthNormal; flag <= MonthSecondOfDouble; flag++ {
		if md, ok := t.Lookup(rabjung, year, month, flag); ok {
			out = append(out, *md)
		}
	}
	return out
}

// ValidateMonthKey checks that every component of k is inside the table's
// span.
func ValidateMonthKey(k MonthKey) error {
	switch {
	case k.Rabjung < FirstRabjung || k.Rabjung > LastRabjung:
		return fmt.Errorf("%w: rabjung %d", ErrOutOfRange, k.Rabjung)
	case k.Year < 1 || k.Year > YearsPerCycle:
		return fmt.Errorf("%w: year %d", ErrOutOfRange, k.Year)
	case k.Month < 1 || k.Month > MonthsPerYear:
		return fmt.Errorf("%w: month %d", ErrOutOfRange, k.Month)
	case !k.Flag.Valid():
		return fmt.Errorf("%w: month flag %d", ErrOutOfRange, k.Flag)
	}
	return nil
}
