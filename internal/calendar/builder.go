package calendar

import (
	"fmt"
	"log/slog"
	"time"
)

// zladagOffset shifts record positions so that month 2 of year 1 of
// rabjung 16 gets elapsed-month index 0.
const zladagOffset = 11134

// The classification recurrence counts years from this offset.
const (
	yearEpochLate  = 901
	yearEpochEarly = 902
)

// Western start date anchor.
var (
	anchorKey  = MonthKey{Rabjung: 17, Year: 2, Month: 1, Flag: MonthNormal}
	anchorDate = time.Date(1988, time.February, 18, 0, 0, 0, 0, time.UTC)
)

// BuildOptions configures Build.
type BuildOptions struct {
	// Logger receives build progress and non-fatal anomalies. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

// Build constructs the full month table: month classification, skip and
// double day detection, then Western date propagation. Any invariant
// failure aborts the build and no table is returned.
func Build(opts BuildOptions) (*Table, error) {
	return build(opts, (*Table).classifyMonths)
}

// build runs the construction pipeline with classify as the first step.
func build(opts BuildOptions, classify func(*Table) error) (*Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	started := time.Now()
	t := &Table{
		months: make([]MonthDescriptor, 0, 14900),
		index:  make(map[MonthKey]int, 14900),
	}

	if err := classify(t); err != nil {
		return nil, fmt.Errorf("classify months: %w", err)
	}
	if err := t.detectSkipsAndDoubles(logger); err != nil {
		return nil, fmt.Errorf("detect skipped and doubled days: %w", err)
	}
	if err := t.propagateWesternDates(); err != nil {
		return nil, fmt.Errorf("propagate western dates: %w", err)
	}

	logger.Info("month table built",
		slog.Int("months", len(t.months)),
		slog.String("first_date", FormatDate(t.FirstDate())),
		slog.String("last_date", FormatDate(t.LastDate())),
		slog.Duration("duration", time.Since(started)))
	return t, nil
}

// monthCase is the outcome of the 65-step classification recurrence.
type monthCase int

const (
	caseInvalid monthCase = iota
	// caseNormal emits the current month.
	caseNormal
	// caseFirstOfDouble emits the current month as the first of a pair.
	caseFirstOfDouble
	// caseSecondOfDouble emits the previous month as the second of a pair.
	caseSecondOfDouble
	// caseShiftedNormal emits the previous month.
	caseShiftedNormal
	// caseCatchUp emits the previous month followed by the current one.
	caseCatchUp
)

func classifyMonth(remainder int) monthCase {
	switch {
	case remainder >= 2 && remainder <= 47:
		return caseNormal
	case remainder == 48 || remainder == 49:
		return caseFirstOfDouble
	case remainder == 50 || remainder == 51:
		return caseSecondOfDouble
	case remainder >= 52 && remainder <= 64:
		return caseShiftedNormal
	case remainder == 0 || remainder == 1:
		return caseCatchUp
	default:
		return caseInvalid
	}
}

// classificationRemainder evaluates the recurrence for a month, with
// totalYears counting Tibetan years from the first year of the table.
func classificationRemainder(totalYears, month int) int {
	m1, y1 := month, totalYears-yearEpochLate
	if month <= 2 {
		m1, y1 = month+12, totalYears-yearEpochEarly
	}
	a := 12*y1 + m1 - 3
	r := (2*a + 55) % 65
	return (r + 65) % 65
}

func (t *Table) classifyMonths() error {
	totalYears := 0
	for r := FirstRabjung; r <= LastRabjung; r++ {
		for y := 1; y <= YearsPerCycle; y++ {
			totalYears++
			for m := 1; m <= MonthsPerYear; m++ {
				rem := classificationRemainder(totalYears, m)
				if err := t.emitMonths(classifyMonth(rem), r, y, m); err != nil {
					return fmt.Errorf("rabjung %d year %d month %d (remainder %d): %w", r, y, m, rem, err)
				}
			}
		}
	}
	return nil
}

func (t *Table) emitMonths(c monthCase, r, y, m int) error {
	prevY, prevM := y, m-1
	if m == 1 {
		prevY, prevM = y-1, MonthsPerYear
	}

	switch c {
	case caseNormal:
		return t.appendMonth(r, y, m, MonthNormal)
	case caseFirstOfDouble:
		return t.appendMonth(r, y, m, MonthFirstOfDouble)
	case caseSecondOfDouble:
		return t.appendMonth(r, prevY, prevM, MonthSecondOfDouble)
	case caseShiftedNormal:
		return t.appendMonth(r, prevY, prevM, MonthNormal)
	case caseCatchUp:
		if err := t.appendMonth(r, prevY, prevM, MonthNormal); err != nil {
			return err
		}
		return t.appendMonth(r, y, m, MonthNormal)
	default:
		return fmt.Errorf("%w: unclassifiable month", ErrInvariant)
	}
}

// appendMonth adds a descriptor, rolling year 0 back to year 60 of the
// previous rabjung.
func (t *Table) appendMonth(r, y, m int, flag MonthFlag) error {
	if y == 0 {
		y = YearsPerCycle
		r--
	}
	if r < FirstRabjung {
		return fmt.Errorf("%w: month before rabjung %d", ErrInvariant, FirstRabjung)
	}

	md := MonthDescriptor{
		Rabjung:           r,
		Year:              y,
		Month:             m,
		Flag:              flag,
		ElapsedMonthIndex: len(t.months) - zladagOffset,
	}
	key := md.Key()
	if _, exists := t.index[key]; exists {
		return fmt.Errorf("%w: duplicate month %s", ErrInvariant, key)
	}
	t.index[key] = len(t.months)
	t.months = append(t.months, md)
	return nil
}
