package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/learnflow/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{61, "1h 1m"},
		{100, "1h 40m"},
		{600, "10h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-02-27T09:00:00Z", time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)},
		{"2026-02-27T09:00:00.123Z", time.Date(2026, 2, 27, 9, 0, 0, 123000000, time.UTC)},
		{"2026-02-27T09:00:00", time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseTimestamp(tt.input)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if _, err := timecalc.ParseTimestamp("yesterday"); err == nil {
		t.Error("ParseTimestamp(yesterday): expected error")
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 2, 27, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		target time.Time
		want   int
	}{
		{time.Date(2026, 2, 28, 1, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), -7},
	}
	for _, tt := range tests {
		if got := timecalc.DaysUntil(now, tt.target); got != tt.want {
			t.Errorf("DaysUntil(%v) = %d, want %d", tt.target, got, tt.want)
		}
	}
}
