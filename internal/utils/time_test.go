package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same day", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 0},
		{"next day across midnight", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC), 1},
		{"backwards", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -4},
		{"leap year", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetween_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// Clocks spring forward on 2024-03-10; the day is only 23 hours long
	from := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	to := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	if got := DaysBetween(from, to); got != 2 {
		t.Errorf("DaysBetween() across DST = %d, want 2", got)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-12-31", 1)
	if err != nil {
		t.Fatalf("AddDays failed: %v", err)
	}
	if got != "2025-01-01" {
		t.Errorf("AddDays() = %s, want 2025-01-01", got)
	}

	if _, err := AddDays("31/12/2024", 1); err == nil {
		t.Error("Expected error for invalid date format")
	}
}

func TestStartOfISOWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-06-03", "2024-06-03"}, // Monday
		{"2024-06-05", "2024-06-03"}, // Wednesday
		{"2024-06-09", "2024-06-03"}, // Sunday belongs to the preceding Monday
		{"2024-06-10", "2024-06-10"},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if got := FormatDate(StartOfISOWeek(d)); got != tt.want {
			t.Errorf("StartOfISOWeek(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	got, err := ParseTimeToMinutes("08:30")
	if err != nil {
		t.Fatalf("ParseTimeToMinutes failed: %v", err)
	}
	if got != 510 {
		t.Errorf("ParseTimeToMinutes() = %d, want 510", got)
	}
	if ValidateTimeFormat("25:00") {
		t.Error("Expected 25:00 to be invalid")
	}
}

func TestTimestampsCompareAsText(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	earlier := FormatTimestamp(time.Date(2024, 1, 1, 3, 0, 0, 0, loc)) // 2023-12-31T22:00:00Z
	later := FormatTimestamp(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC))
	if !(earlier < later) {
		t.Errorf("Expected %s < %s", earlier, later)
	}

	parsed, err := ParseTimestamp(later)
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	if !parsed.Equal(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseTimestamp() = %v", parsed)
	}
}
