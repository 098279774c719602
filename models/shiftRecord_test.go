package models

import (
	"testing"
	"time"
)

func TestShiftRecordSpan_OvernightWrap(t *testing.T) {
	s := ShiftRecord{
		ShiftDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "22:00",
		EndTime:   "06:00",
	}
	start, end, ok := s.Span()
	if !ok {
		t.Fatalf("Span() not ok")
	}
	if !end.After(start) {
		t.Fatalf("overnight end %v is not after start %v", end, start)
	}
	if end.Day() != 3 {
		t.Fatalf("overnight shift should end on the next calendar day, got day %d", end.Day())
	}
	minutes, ok := s.DurationMinutes()
	if !ok || minutes != 480 {
		t.Fatalf("DurationMinutes() = %d, %v; want 480", minutes, ok)
	}
}

func TestShiftRecordSpan_MidnightEndWraps(t *testing.T) {
	// End equal to start is treated as a 24h wrap, not a zero-length shift.
	s := ShiftRecord{
		ShiftDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "16:00",
		EndTime:   "00:00",
	}
	minutes, ok := s.DurationMinutes()
	if !ok || minutes != 480 {
		t.Fatalf("DurationMinutes() = %d, %v; want 480", minutes, ok)
	}
}

func TestShiftRecordSpan_UnparsableTimes(t *testing.T) {
	s := ShiftRecord{
		ShiftDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "9am",
		EndTime:   "17:00",
	}
	if _, _, ok := s.Span(); ok {
		t.Fatalf("Span() ok for unparsable start time")
	}
	if _, ok := s.DurationMinutes(); ok {
		t.Fatalf("DurationMinutes() ok for unparsable start time")
	}
}

func TestNetHours_SubtractsBreaks(t *testing.T) {
	s := ShiftRecord{
		ShiftDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "17:30",
		BreakMinutes: 30,
	}
	net, ok := s.NetHours()
	if !ok {
		t.Fatalf("NetHours() not ok")
	}
	if net.String() != "8" {
		t.Fatalf("NetHours() = %s; want 8", net)
	}
}
