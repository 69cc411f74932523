package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Tiliavir/learnflow/internal/model"
)

func TestParseTargetDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"2025-01-01T12:00:00+02:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"01/01/2025", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := model.ParseTargetDate(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ParseTargetDate(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if tt.ok && !got.Equal(tt.want) {
			t.Errorf("ParseTargetDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGoalPatchApply(t *testing.T) {
	title := "Learn Go properly"
	status := model.GoalCompleted
	progress := 100
	g := model.Goal{ID: 1, Title: "Learn Go", Description: "tour", Status: model.GoalActive}

	got := model.GoalPatch{Title: &title, Status: &status, Progress: &progress}.Apply(g)

	if got.Title != title || got.Status != status || got.Description != "tour" {
		t.Errorf("Apply = %+v", got)
	}
	if got.Progress == nil || *got.Progress != 100 {
		t.Errorf("Apply progress = %v, want 100", got.Progress)
	}
	progress = 5
	if *got.Progress != 100 {
		t.Error("Apply must copy the progress value")
	}
	if g.Title != "Learn Go" {
		t.Error("Apply must not modify its argument")
	}
}

func TestGoalStatusValid(t *testing.T) {
	for _, s := range []model.GoalStatus{model.GoalActive, model.GoalInProgress, model.GoalCompleted, model.GoalArchived} {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false", s)
		}
	}
	if model.GoalStatus("active").Valid() {
		t.Error(`"active".Valid() = true, statuses are upper case`)
	}
}

func TestAuthResultShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  model.AuthResult
	}{
		{
			"nested user",
			`{"user":{"id":"1","email":"a@x.com","name":"A"},"accessToken":"t1"}`,
			model.AuthResult{User: model.User{ID: "1", Email: "a@x.com", Name: "A"}, AccessToken: "t1"},
		},
		{
			"top-level user",
			`{"id":"2","email":"b@x.com","name":"B"}`,
			model.AuthResult{User: model.User{ID: "2", Email: "b@x.com", Name: "B"}},
		},
	}
	for _, tt := range tests {
		var got model.AuthResult
		if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
