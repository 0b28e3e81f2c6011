package calendar

import (
	"errors"
	"slices"
	"testing"
)

func TestCorrectedWeekday(t *testing.T) {
	tests := []struct {
		name string
		m    int
		want []int
	}{
		{
			name: "epoch month",
			m:    0,
			want: []int{1, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 4, 5, 6, 0, 1},
		},
		{
			name: "first month of table",
			m:    -11134,
			want: []int{4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 4, 5, 6, 0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5},
		},
		{
			name: "last month of table",
			m:    3708,
			want: []int{6, 0, 1, 2, 3, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := RootsFor(tt.m)
			got := make([]int, 0, DaysPerMonth)
			for d := 1; d <= DaysPerMonth; d++ {
				w, err := CorrectedWeekday(d, roots)
				if err != nil {
					t.Fatalf("CorrectedWeekday(%d) error = %v", d, err)
				}
				got = append(got, w)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("weekdays = %v\nwant %v", got, tt.want)
			}
		})
	}
}

func TestCorrectedWeekday_Range(t *testing.T) {
	for _, m := range []int{-11134, -5000, -338, 0, 753, 1200, 3708} {
		roots := RootsFor(m)
		for d := 1; d <= DaysPerMonth; d++ {
			w, err := CorrectedWeekday(d, roots)
			if err != nil {
				t.Fatalf("CorrectedWeekday(%d, month %d) error = %v", d, m, err)
			}
			if w < 0 || w > 6 {
				t.Errorf("CorrectedWeekday(%d, month %d) = %d, want 0..6", d, m, w)
			}
		}
	}
}

func TestAddDigits(t *testing.T) {
	moduli := []int{7, 60, 60, 6, 707}
	tests := []struct {
		a, b, want []int
	}{
		{[]int{1, 2, 3, 4, 5}, []int{0, 0, 0, 0, 1}, []int{1, 2, 3, 4, 6}},
		{[]int{1, 2, 3, 5, 706}, []int{0, 0, 0, 0, 1}, []int{1, 2, 4, 0, 0}},
		{[]int{6, 59, 59, 5, 706}, []int{0, 0, 0, 0, 1}, []int{0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		if got := addDigits(tt.a, tt.b, moduli); !slices.Equal(got, tt.want) {
			t.Errorf("addDigits(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSubtractDigits(t *testing.T) {
	moduli := []int{7, 60, 60, 6, 707}
	tests := []struct {
		name       string
		a, b, want []int
	}{
		{"no borrow", []int{3, 10, 10, 3, 100}, []int{0, 5, 5, 1, 50}, []int{3, 5, 5, 2, 50}},
		{"single borrow", []int{3, 10, 10, 3, 10}, []int{0, 0, 0, 0, 20}, []int{3, 10, 10, 2, 697}},
		{"top not wrapped", []int{0, 0, 10, 3, 10}, []int{0, 1, 0, 0, 0}, []int{-1, 59, 10, 3, 10}},
		{"incoming borrow ignored", []int{3, 10, 0, 3, 10}, []int{0, 0, 0, 3, 20}, []int{3, 10, 0, -1, 697}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subtractDigits(tt.a, tt.b, moduli); !slices.Equal(got, tt.want) {
				t.Errorf("subtractDigits(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalizeDigits(t *testing.T) {
	digits := []int{3, 10, 0, -1, 697, 5}
	normalizeDigits(digits, correctedModuli[:])
	want := []int{3, 9, 59, 5, 697, 5}
	if !slices.Equal(digits, want) {
		t.Errorf("normalizeDigits() = %v, want %v", digits, want)
	}
}

func TestClassifyMonth(t *testing.T) {
	tests := []struct {
		remainder int
		want      monthCase
	}{
		{0, caseCatchUp},
		{1, caseCatchUp},
		{2, caseNormal},
		{47, caseNormal},
		{48, caseFirstOfDouble},
		{49, caseFirstOfDouble},
		{50, caseSecondOfDouble},
		{51, caseSecondOfDouble},
		{52, caseShiftedNormal},
		{64, caseShiftedNormal},
		{65, caseInvalid},
		{-1, caseInvalid},
	}

	for _, tt := range tests {
		if got := classifyMonth(tt.remainder); got != tt.want {
			t.Errorf("classifyMonth(%d) = %d, want %d", tt.remainder, got, tt.want)
		}
	}
}

func TestClassificationRemainder(t *testing.T) {
	// First month of the table is an ordinary month.
	if got := classificationRemainder(1, 1); got != 31 {
		t.Errorf("classificationRemainder(1, 1) = %d, want 31", got)
	}
	for ty := 1; ty <= LastRabjung*YearsPerCycle; ty++ {
		for m := 1; m <= MonthsPerYear; m++ {
			if got := classificationRemainder(ty, m); got < 0 || got > 64 {
				t.Fatalf("classificationRemainder(%d, %d) = %d, want 0..64", ty, m, got)
			}
		}
	}
}

func TestSunEquation_InexactRemainder(t *testing.T) {
	// One 67th of a mansion past the 405-minute sector boundary does not
	// divide into 135 parts.
	if _, _, err := sunEquation([]int{0, 0, 0, 0, 1}); !errors.Is(err, ErrInvariant) {
		t.Errorf("sunEquation() error = %v, want ErrInvariant", err)
	}
	if _, _, err := sunEquation([]int{0, 0, 0, 0, 0}); err != nil {
		t.Errorf("sunEquation(zero) error = %v, want nil", err)
	}
}

func TestMoonEquation_ExactForEveryRoot(t *testing.T) {
	for anomaly := 0; anomaly < 28; anomaly++ {
		for fraction := 0; fraction < 126; fraction++ {
			for d := 1; d <= DaysPerMonth; d++ {
				if _, _, err := moonEquation(d, LunationRoot{anomaly, fraction}); err != nil {
					t.Fatalf("moonEquation(%d, {%d, %d}) error = %v", d, anomaly, fraction, err)
				}
			}
		}
	}
}
