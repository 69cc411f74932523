package cmd

import (
	"bytes"
	"testing"

	"github.com/Tiliavir/learnflow/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	entries := []model.Progress{
		{ID: 1, GoalID: 7, Notes: "chapter 1", Duration: 45, CreatedAt: "2026-02-23T09:00:00Z"},
		{ID: 2, GoalID: 7, Notes: "exercises, part 2", Duration: 30, CreatedAt: "2026-02-24T09:00:00Z"},
	}
	var buf bytes.Buffer
	printCSV(&buf, entries)

	want := "id,goal_id,created_at,duration_minutes,notes\n" +
		"1,7,2026-02-23T09:00:00Z,45,chapter 1\n" +
		"2,7,2026-02-24T09:00:00Z,30,\"exercises, part 2\"\n"
	if got := buf.String(); got != want {
		t.Errorf("printCSV output = %q, want %q", got, want)
	}
}
