package schedule

import (
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestGridHourly(t *testing.T) {
	slots, err := Grid("09:00", "12:00", 60)
	if err != nil {
		t.Fatalf("Grid error: %v", err)
	}
	want := []string{"09:00", "10:00", "11:00"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], slots[i])
		}
	}
}

func TestGridLastSlotFitsBeforeClosing(t *testing.T) {
	// The next candidate after 18:00 is 18:45, which would overrun 19:00.
	slots, err := Grid("09:00", "19:00", 45)
	if err != nil {
		t.Fatalf("Grid error: %v", err)
	}
	last := slots[len(slots)-1]
	if last != "18:00" {
		t.Fatalf("unexpected last slot: %v", slots)
	}
	lastMin, _ := ParseClockToMinutes(last)
	closeMin, _ := ParseClockToMinutes("19:00")
	if lastMin+45 > closeMin {
		t.Fatalf("last slot overruns closing: %s", last)
	}
	if lastMin+45+45 <= closeMin {
		t.Fatalf("grid is not maximal: %s", last)
	}
}

func TestGridRejectsBadInputs(t *testing.T) {
	if _, err := Grid("09:00", "12:00", 0); err != ErrInvalidInterval {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if _, err := Grid("12:00", "09:00", 30); err != ErrInvalidWindow {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if _, err := Grid("9am", "12:00", 30); err != ErrInvalidTime {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"09:30":    "09:30",
		"09:30:00": "09:30",
		"14:00:59": "14:00",
	}
	for in, want := range cases {
		got, err := NormalizeClock(in)
		if err != nil {
			t.Fatalf("NormalizeClock(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizeClock(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := NormalizeClock("25:00"); err == nil {
		t.Fatalf("expected error for 25:00")
	}
}

func TestIsDatePast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2026, 2, 4, 10, 0, 0, 0, loc)
	past, err := IsDatePast("2026-02-03", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if !past {
		t.Fatalf("expected date to be past")
	}

	past, err = IsDatePast("2026-02-04", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if past {
		t.Fatalf("expected date to be not past")
	}
}

func TestFilterReserved(t *testing.T) {
	slots := []string{"09:00", "09:30", "10:00"}
	reserved := map[string]bool{"09:30": true}
	filtered := FilterReserved(slots, reserved)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(filtered))
	}
	if filtered[1] != "10:00" {
		t.Fatalf("unexpected slots: %v", filtered)
	}
}

func TestNextBoundaryMinutes(t *testing.T) {
	loc := mustLoadLoc(t)

	// Exactly on a boundary stays on it.
	now := time.Date(2026, 2, 4, 10, 0, 0, 0, loc)
	if got := NextBoundaryMinutes(now, loc, 30); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}

	// Seconds past a boundary round up to the next one.
	now = time.Date(2026, 2, 4, 10, 0, 30, 0, loc)
	if got := NextBoundaryMinutes(now, loc, 30); got != 630 {
		t.Fatalf("expected 630, got %d", got)
	}

	now = time.Date(2026, 2, 4, 10, 12, 0, 0, loc)
	if got := NextBoundaryMinutes(now, loc, 30); got != 630 {
		t.Fatalf("expected 630, got %d", got)
	}
}

func TestFilterBeforeBoundary(t *testing.T) {
	loc := mustLoadLoc(t)
	slots := []string{"09:00", "09:30", "10:00", "10:30"}

	// 09:30:01 means the 09:30 slot already started; 10:00 is next.
	now := time.Date(2026, 2, 4, 9, 30, 1, 0, loc)
	filtered, err := FilterBeforeBoundary(slots, now, loc, 30)
	if err != nil {
		t.Fatalf("FilterBeforeBoundary error: %v", err)
	}
	if len(filtered) != 2 || filtered[0] != "10:00" {
		t.Fatalf("unexpected slots: %v", filtered)
	}
}

func TestIsSlotPast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2026, 2, 4, 10, 0, 0, 0, loc)
	past, err := IsSlotPast("2026-02-04", "09:00", loc, now)
	if err != nil {
		t.Fatalf("IsSlotPast error: %v", err)
	}
	if !past {
		t.Fatalf("expected slot to be past")
	}
	past, err = IsSlotPast("2026-02-04", "10:30", loc, now)
	if err != nil {
		t.Fatalf("IsSlotPast error: %v", err)
	}
	if past {
		t.Fatalf("expected slot to be future")
	}
}

func TestContainsNormalizesSeconds(t *testing.T) {
	slots := []string{"09:00", "09:30"}
	if !Contains(slots, "09:30:00") {
		t.Fatalf("expected 09:30:00 to match 09:30")
	}
	if Contains(slots, "09:15") {
		t.Fatalf("expected 09:15 to not match")
	}
}
