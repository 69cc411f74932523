package model

import (
	"fmt"
	"time"
)

// GoalStatus is the lifecycle state of a learning goal.
type GoalStatus string

const (
	GoalActive     GoalStatus = "ACTIVE"
	GoalInProgress GoalStatus = "IN_PROGRESS"
	GoalCompleted  GoalStatus = "COMPLETED"
	GoalArchived   GoalStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known statuses.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalInProgress, GoalCompleted, GoalArchived:
		return true
	}
	return false
}

// Goal is a learning goal owned by the current user.
type Goal struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      GoalStatus `json:"status"`
	TargetDate  string     `json:"targetDate"`
	Progress    *int       `json:"progress,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// GoalInput is the body of a create-goal request.
type GoalInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"targetDate"`
}

// GoalPatch carries the fields of a partial goal update. Nil fields are left
// untouched by the server.
type GoalPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *GoalStatus `json:"status,omitempty"`
	TargetDate  *string     `json:"targetDate,omitempty"`
	Progress    *int        `json:"progress,omitempty"`
}

// Apply returns a copy of g with the non-nil fields of p applied.
func (p GoalPatch) Apply(g Goal) Goal {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.TargetDate != nil {
		g.TargetDate = *p.TargetDate
	}
	if p.Progress != nil {
		v := *p.Progress
		g.Progress = &v
	}
	return g
}

// ParseTargetDate accepts a plain date (2006-01-02) or a full RFC 3339
// timestamp and returns it as a time in UTC.
func ParseTargetDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid target date %q: want YYYY-MM-DD", s)
}
