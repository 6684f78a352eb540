package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate     = errors.New("invalid date format")
	ErrInvalidTime     = errors.New("invalid time format")
	ErrInvalidInterval = errors.New("invalid slot interval")
	ErrInvalidWindow   = errors.New("closing time must be after opening time")
)

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// NormalizeClock accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM".
func NormalizeClock(timeStr string) (string, error) {
	s := strings.TrimSpace(timeStr)
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04"), nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", ErrInvalidTime
	}
	return t.Format("15:04"), nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	normalized, err := NormalizeClock(timeStr)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse("15:04", normalized)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

func ParseDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	normalized, err := NormalizeClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+normalized, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	local := now.In(loc)
	startToday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return date.Before(startToday), nil
}

func IsDateToday(dateStr string, loc *time.Location, now time.Time) bool {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false
	}
	local := now.In(loc)
	return date.Year() == local.Year() && date.YearDay() == local.YearDay()
}

func IsSlotPast(dateStr, timeStr string, loc *time.Location, now time.Time) (bool, error) {
	slot, err := ParseDateTime(dateStr, timeStr, loc)
	if err != nil {
		return false, err
	}
	return !slot.After(now.In(loc)), nil
}

// Grid emits one slot start every interval minutes from opening, keeping only
// slots that fully fit before closing: start + interval <= closing.
func Grid(opening, closing string, interval int) ([]string, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	startMin, err := ParseClockToMinutes(opening)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClockToMinutes(closing)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		return nil, ErrInvalidWindow
	}

	slots := make([]string, 0, (endMin-startMin)/interval)
	for cursor := startMin; cursor+interval <= endMin; cursor += interval {
		slots = append(slots, MinutesToClock(cursor))
	}
	return slots, nil
}

func FilterReserved(slots []string, reserved map[string]bool) []string {
	filtered := make([]string, 0, len(slots))
	for _, s := range slots {
		if !reserved[s] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// NextBoundaryMinutes rounds the current civil time up to the next slot
// boundary. A slot that already started this interval is never offered, even
// if "now" is only seconds past its start.
func NextBoundaryMinutes(now time.Time, loc *time.Location, interval int) int {
	local := now.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	if local.Second() > 0 || local.Nanosecond() > 0 {
		minutes++
	}
	if rem := minutes % interval; rem != 0 {
		minutes += interval - rem
	}
	return minutes
}

// FilterBeforeBoundary drops every slot starting before the next interval
// boundary at or after now. Used for same-day availability only.
func FilterBeforeBoundary(slots []string, now time.Time, loc *time.Location, interval int) ([]string, error) {
	boundary := NextBoundaryMinutes(now, loc, interval)
	filtered := make([]string, 0, len(slots))
	for _, s := range slots {
		start, err := ParseClockToMinutes(s)
		if err != nil {
			return nil, err
		}
		if start >= boundary {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func Contains(slots []string, timeStr string) bool {
	normalized, err := NormalizeClock(timeStr)
	if err != nil {
		return false
	}
	for _, s := range slots {
		if s == normalized {
			return true
		}
	}
	return false
}
