package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Tiliavir/learnflow/internal/model"
)

func TestWeeklyTotals(t *testing.T) {
	entries := []model.Progress{
		{Duration: 30, CreatedAt: "2026-03-02T10:00:00Z"}, // W10
		{Duration: 45, CreatedAt: "2026-02-23T09:00:00Z"}, // W09
		{Duration: 15, CreatedAt: "2026-03-01T22:00:00Z"}, // Sunday, still W09
		{Duration: 10, CreatedAt: "sometime"},
	}
	got := weeklyTotals(entries)
	want := []weekTotal{
		{Week: "2026-W09", Minutes: 60, Sessions: 2},
		{Week: "2026-W10", Minutes: 30, Sessions: 1},
		{Week: "undated", Minutes: 10, Sessions: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("weeklyTotals returned %d weeks, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("weeklyTotals[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPrintReportFormats(t *testing.T) {
	weeks := []weekTotal{
		{Week: "2026-W09", Minutes: 60, Sessions: 2},
		{Week: "2026-W10", Minutes: 30, Sessions: 1},
	}
	tests := []struct {
		format string
		want   []string
	}{
		{"csv", []string{"week,sessions,duration_minutes", "2026-W09,2,60", "2026-W10,1,30"}},
		{"json", []string{`"week": "2026-W09"`, `"total_minutes": 90`}},
		{"md", []string{"2026-W09", "1h 0m", "Total", "1h 30m"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printReport(&buf, weeks, tt.format)
		for _, s := range tt.want {
			if !strings.Contains(buf.String(), s) {
				t.Errorf("printReport(%s) missing %q in:\n%s", tt.format, s, buf.String())
			}
		}
	}
}
