package calendar

import "fmt"

// checkMarks rejects a doubled day without a matching skipped day.
func checkMarks(md MonthDescriptor) error {
	if (md.Skip1 == 0 && md.Double1 != 0) || (md.Skip2 == 0 && md.Double2 != 0) {
		return fmt.Errorf("%w: month %s has a doubled day without a skipped day", ErrInvariant, md.Key())
	}
	return nil
}

// propagateWesternDates pins the anchor month to its known start date and
// walks outwards. Forward steps use plain calendar arithmetic; backward steps
// compensate historical discontinuities.
func (t *Table) propagateWesternDates() error {
	pos, ok := t.index[anchorKey]
	if !ok {
		return fmt.Errorf("%w: anchor month %s missing", ErrInvariant, anchorKey)
	}
	t.anchor = pos

	if err := checkMarks(t.months[pos]); err != nil {
		return err
	}
	t.months[pos].WesternStartDate = anchorDate

	for i := pos + 1; i < len(t.months); i++ {
		if err := checkMarks(t.months[i]); err != nil {
			return err
		}
		prev := t.months[i-1]
		t.months[i].WesternStartDate = prev.WesternStartDate.AddDate(0, 0, prev.Length())
	}

	for i := pos - 1; i >= 0; i-- {
		if err := checkMarks(t.months[i]); err != nil {
			return err
		}
		next := t.months[i+1]
		t.months[i].WesternStartDate = SubDays(next.WesternStartDate, t.months[i].Length())
	}
	return nil
}
