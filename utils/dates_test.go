package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC)

	if got := DaysBetween(start, end); got != 2 {
		t.Errorf("expected 2 days, got %d", got)
	}
}

func TestWeekOfMonth(t *testing.T) {
	cases := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {28, 4}, {29, 5},
	}
	for _, tc := range cases {
		d := time.Date(2024, 1, tc.day, 0, 0, 0, 0, time.UTC)
		if got := WeekOfMonth(d); got != tc.want {
			t.Errorf("day %d: expected week %d, got %d", tc.day, tc.want, got)
		}
	}
}
