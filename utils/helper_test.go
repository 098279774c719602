package utils

import (
	"testing"
	"time"
)

func TestISOWeekStart(t *testing.T) {
	cases := []struct {
		in       time.Time
		expected string
	}{
		{time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC), "2026-03-02"}, // Monday
		{time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), "2026-03-02"},   // Wednesday
		{time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), "2026-03-02"}, // Sunday belongs to the Monday-start week
		{time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "2026-03-09"},   // next Monday
	}
	for _, tc := range cases {
		got := ISOWeekStart(tc.in)
		if got.Format("2006-01-02") != tc.expected {
			t.Fatalf("ISOWeekStart(%v) = %v; want %s", tc.in, got, tc.expected)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Fatalf("ISOWeekStart(%v) not at midnight: %v", tc.in, got)
		}
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, 3, 2, 18, 45, 12, 999, time.UTC)
	got := DateOnly(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("DateOnly(%v) = %v; want midnight", in, got)
	}
	if got.Year() != 2026 || got.Month() != 3 || got.Day() != 2 {
		t.Fatalf("DateOnly(%v) changed the date: %v", in, got)
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	if len(got) != 3 {
		t.Fatalf("UniqueSlice = %v; want 3 distinct values", got)
	}
}
