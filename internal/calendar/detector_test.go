package calendar

import "testing"

func TestMarkDay(t *testing.T) {
	var first, second int

	if !markDay(&first, &second, 4) || first != 4 || second != 0 {
		t.Fatalf("first mark: slots = %d,%d, want 4,0", first, second)
	}
	if !markDay(&first, &second, 28) || first != 4 || second != 28 {
		t.Fatalf("second mark: slots = %d,%d, want 4,28", first, second)
	}
	if markDay(&first, &second, 30) {
		t.Error("markDay() with both slots taken = true, want false")
	}
	if first != 4 || second != 28 {
		t.Errorf("slots after third mark = %d,%d, want 4,28", first, second)
	}
}

func TestIsDoubledDay(t *testing.T) {
	tests := []struct {
		prev, cur int
		want      bool
	}{
		{0, 2, true},
		{4, 6, true},
		{5, 0, true},
		{6, 1, true},
		{4, 5, false},
		{5, 7, false},
		{6, 0, false},
		{3, 3, false},
		{1, 4, false},
	}

	for _, tt := range tests {
		if got := isDoubledDay(tt.prev, tt.cur); got != tt.want {
			t.Errorf("isDoubledDay(%d, %d) = %v, want %v", tt.prev, tt.cur, got, tt.want)
		}
	}
}
