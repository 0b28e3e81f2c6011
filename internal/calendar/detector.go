package calendar

import (
	"fmt"
	"log/slog"
)

// dayMarks collects skipped and doubled positions within one month.
type dayMarks struct {
	skip1, skip2     int
	double1, double2 int
}

// markDay stores day in the first free slot. It reports false when both
// slots are taken.
func markDay(first, second *int, day int) bool {
	switch {
	case *first == 0:
		*first = day
	case *second == 0:
		*second = day
	default:
		return false
	}
	return true
}

// detectSkipsAndDoubles walks every day of every month in table order and
// compares each corrected weekday with the one before it. The first month
// only seeds the comparison with its day 30.
func (t *Table) detectSkipsAndDoubles(logger *slog.Logger) error {
	if len(t.months) == 0 {
		return nil
	}

	prev, err := CorrectedWeekday(DaysPerMonth, RootsFor(t.months[0].ElapsedMonthIndex))
	if err != nil {
		return fmt.Errorf("seed month %s: %w", t.months[0].Key(), err)
	}

	for i := 1; i < len(t.months); i++ {
		md := &t.months[i]
		roots := RootsFor(md.ElapsedMonthIndex)

		var marks dayMarks
		for day := 1; day <= DaysPerMonth; day++ {
			cur, err := CorrectedWeekday(day, roots)
			if err != nil {
				return fmt.Errorf("month %s day %d: %w", md.Key(), day, err)
			}

			switch {
			case cur == prev:
				if !markDay(&marks.skip1, &marks.skip2, day) {
					logger.Warn("third skipped day in month ignored",
						slog.Int("record", i),
						slog.String("month", md.Key().String()),
						slog.Int("day", day))
				}
			case isDoubledDay(prev, cur):
				if !markDay(&marks.double1, &marks.double2, day) {
					logger.Warn("third doubled day in month ignored",
						slog.Int("record", i),
						slog.String("month", md.Key().String()),
						slog.Int("day", day))
				}
			}
			prev = cur
		}

		md.Skip1, md.Skip2 = marks.skip1, marks.skip2
		md.Double1, md.Double2 = marks.double1, marks.double2
	}
	return nil
}

// isDoubledDay reports whether the weekday advanced by two, wrapping
// around the seven-day week.
func isDoubledDay(prev, cur int) bool {
	if prev < 5 {
		return cur == prev+2
	}
	return cur == prev-5
}
