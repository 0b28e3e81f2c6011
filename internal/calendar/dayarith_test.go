package calendar

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want string
	}{
		{"zero", date(2024, time.March, 1), 0, "2024-03-01"},
		{"modern leap day", date(2024, time.February, 28), 1, "2024-02-29"},
		{"cross into 1900 unchanged", date(1899, time.December, 31), 5, "1900-01-05"},
		{"after 1900 unchanged", date(1900, time.January, 1), 40, "1900-02-10"},
		{"1582 cutover", date(1582, time.October, 4), 1, "1582-10-15"},
		{"1582 cutover wide", date(1582, time.October, 1), 10, "1582-10-21"},
		{"1100 leap day reached", date(1100, time.February, 28), 1, "1100-02-28"},
		{"1100 leap day two steps", date(1100, time.February, 27), 2, "1100-02-28"},
		{"1100 leap day crossed", date(1100, time.February, 20), 10, "1100-03-01"},
		{"1500 leap day reached", date(1500, time.February, 28), 1, "1500-02-28"},
		{"1500 zero days", date(1500, time.February, 28), 0, "1500-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDate(AddDays(tt.from, tt.n))
			if got != tt.want {
				t.Errorf("AddDays(%s, %d) = %s, want %s", FormatDate(tt.from), tt.n, got, tt.want)
			}
		})
	}
}

func TestSubDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want string
	}{
		{"zero at cutover", date(1582, time.October, 15), 0, "1582-10-15"},
		{"from cutover day", date(1582, time.October, 15), 1, "1582-10-14"},
		{"across cutover", date(1582, time.October, 20), 10, "1582-09-30"},
		{"1100 march first", date(1100, time.March, 1), 1, "1100-02-28"},
		{"1100 two days", date(1100, time.March, 1), 2, "1100-02-28"},
		{"1100 before threshold", date(1100, time.February, 28), 1, "1100-02-27"},
		{"1300 march first", date(1300, time.March, 1), 1, "1300-02-28"},
		{"1500 march first", date(1500, time.March, 1), 1, "1500-02-28"},
		{"1500 across", date(1500, time.March, 5), 10, "1500-02-24"},
		{"modern", date(2024, time.March, 1), 1, "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDate(SubDays(tt.from, tt.n))
			if got != tt.want {
				t.Errorf("SubDays(%s, %d) = %s, want %s", FormatDate(tt.from), tt.n, got, tt.want)
			}
		})
	}
}

// Forward and backward steps are not inverses next to a threshold.
func TestAddSubAsymmetry(t *testing.T) {
	d := date(1100, time.February, 28)
	fwd := AddDays(d, 1)
	back := SubDays(fwd, 1)
	if !back.Equal(date(1100, time.February, 27)) {
		t.Errorf("SubDays(AddDays(1100-02-28, 1), 1) = %s, want 1100-02-27", FormatDate(back))
	}
}

func TestDayDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"equal", date(2024, time.May, 5), date(2024, time.May, 5), 0},
		{"modern month", date(2024, time.March, 1), date(2024, time.February, 1), 29},
		{"argument order", date(2024, time.February, 1), date(2024, time.March, 1), 29},
		{"1582 cutover", date(1582, time.October, 15), date(1582, time.October, 4), 1},
		{"1100 extra leap day", date(1100, time.March, 1), date(1100, time.February, 28), 2},
		{"1100 ordinary", date(1100, time.February, 28), date(1100, time.February, 27), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DayDifference(tt.a, tt.b)
			if err != nil {
				t.Fatalf("DayDifference() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DayDifference(%s, %s) = %d, want %d", FormatDate(tt.a), FormatDate(tt.b), got, tt.want)
			}
		})
	}
}

func TestDayDifference_TooFarApart(t *testing.T) {
	_, err := DayDifference(date(2000, time.January, 1), date(2010, time.January, 1))
	if !errors.Is(err, ErrInvariant) {
		t.Errorf("DayDifference() error = %v, want ErrInvariant", err)
	}
}
