package model

// Progress is a single logged study session against a goal.
type Progress struct {
	ID        int64  `json:"id"`
	GoalID    int64  `json:"goalId"`
	Notes     string `json:"notes"`
	Duration  int    `json:"duration"` // minutes
	CreatedAt string `json:"createdAt"`
}

// ProgressInput is the body of a log-progress request.
type ProgressInput struct {
	Notes    string `json:"notes"`
	Duration int    `json:"duration"`
}
