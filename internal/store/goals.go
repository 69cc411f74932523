package store

import (
	"context"
	"strings"

	"github.com/Tiliavir/learnflow/internal/apierr"
	"github.com/Tiliavir/learnflow/internal/model"
)

const (
	ActionFetchGoals        = "goals/fetchGoals"
	ActionCreateGoal        = "goals/createGoal"
	ActionUpdateGoal        = "goals/updateGoal"
	ActionDeleteGoal        = "goals/deleteGoal"
	ActionSetSelectedGoal   = "goals/setSelectedGoal"
	ActionFetchGoalProgress = "goals/fetchGoalProgress"
	ActionLogProgress       = "goals/logProgress"
	ActionClearGoalsError   = "goals/clearError"
)

func goalsPending(st *State) {
	st.Goals.IsLoading = true
	st.Goals.Error = ""
}

func goalsFailed(msg string) func(*State) {
	return func(st *State) {
		st.Goals.IsLoading = false
		st.Goals.Error = msg
	}
}

func goalsDone(st *State) {
	st.Goals.IsLoading = false
	st.Goals.Error = ""
}

// runGoals drives one goals operation through its lifecycle. call is skipped when
// validate returns an error.
func (s *Store) runGoals(typ, fallback string, validate func() error, call func() (func(*State), error)) error {
	s.dispatch(Action{Type: typ, Phase: Pending}, goalsPending)

	err := validate()
	var apply func(*State)
	if err == nil {
		apply, err = call()
	}
	if err != nil {
		s.dispatch(Action{Type: typ, Phase: Rejected, Err: err}, goalsFailed(errorMessage(err, fallback)))
		return err
	}
	s.dispatch(Action{Type: typ, Phase: Fulfilled}, func(st *State) {
		goalsDone(st)
		apply(st)
	})
	return nil
}

func noValidation() error { return nil }

// FetchGoals replaces the goal collection with the server's.
func (s *Store) FetchGoals(ctx context.Context) error {
	return s.runGoals(ActionFetchGoals, "Failed to fetch goals", noValidation, func() (func(*State), error) {
		goals, err := s.api.ListGoals(ctx)
		if err != nil {
			return nil, err
		}
		return func(st *State) { st.Goals.Goals = goals }, nil
	})
}

// ValidateGoalInput checks a create request before it is sent.
func ValidateGoalInput(in model.GoalInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apierr.Validation("Title is required")
	}
	if _, err := model.ParseTargetDate(in.TargetDate); err != nil {
		return apierr.Validation("Target date must be a valid date (YYYY-MM-DD)")
	}
	return nil
}

// ValidateGoalPatch checks an update request before it is sent.
func ValidateGoalPatch(p model.GoalPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apierr.Validation("Title is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		return apierr.Validation("Unknown status %q", *p.Status)
	}
	if p.TargetDate != nil {
		if _, err := model.ParseTargetDate(*p.TargetDate); err != nil {
			return apierr.Validation("Target date must be a valid date (YYYY-MM-DD)")
		}
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return apierr.Validation("Progress must be between 0 and 100")
	}
	return nil
}

// CreateGoal creates a goal and appends it to the collection.
func (s *Store) CreateGoal(ctx context.Context, in model.GoalInput) error {
	return s.runGoals(ActionCreateGoal, "Failed to create goal",
		func() error { return ValidateGoalInput(in) },
		func() (func(*State), error) {
			g, err := s.api.CreateGoal(ctx, in)
			if err != nil {
				return nil, err
			}
			return func(st *State) { st.Goals.Goals = append(st.Goals.Goals, g) }, nil
		})
}

// UpdateGoal applies a partial update. The stored goal replaces the local
// entry with the same id; an id that is not in the collection changes
// nothing.
func (s *Store) UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) error {
	return s.runGoals(ActionUpdateGoal, "Failed to update goal",
		func() error { return ValidateGoalPatch(patch) },
		func() (func(*State), error) {
			g, err := s.api.UpdateGoal(ctx, id, patch)
			if err != nil {
				return nil, err
			}
			return func(st *State) {
				for i := range st.Goals.Goals {
					if st.Goals.Goals[i].ID == id {
						st.Goals.Goals[i] = g
						break
					}
				}
				if st.Goals.SelectedGoal != nil && st.Goals.SelectedGoal.ID == id {
					st.Goals.SelectedGoal = &g
				}
			}, nil
		})
}

// DeleteGoal removes a goal. Deleting the selected goal clears the selection
// and its progress.
func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	return s.runGoals(ActionDeleteGoal, "Failed to delete goal", noValidation, func() (func(*State), error) {
		if err := s.api.DeleteGoal(ctx, id); err != nil {
			return nil, err
		}
		return func(st *State) {
			kept := st.Goals.Goals[:0:0]
			for _, g := range st.Goals.Goals {
				if g.ID != id {
					kept = append(kept, g)
				}
			}
			st.Goals.Goals = kept
			if st.Goals.SelectedGoal != nil && st.Goals.SelectedGoal.ID == id {
				st.Goals.SelectedGoal = nil
				st.Goals.Progress = nil
			}
		}, nil
	})
}

// SetSelectedGoal updates the selected goal without a network call. nil
// clears the selection.
func (s *Store) SetSelectedGoal(g *model.Goal) {
	var sel *model.Goal
	if g != nil {
		c := *g
		sel = &c
	}
	s.dispatch(Action{Type: ActionSetSelectedGoal, Phase: Fulfilled}, func(st *State) {
		st.Goals.SelectedGoal = sel
	})
}

// SelectGoalByID selects the goal with the given id from the loaded
// collection and reports whether it was found.
func (s *Store) SelectGoalByID(id int64) bool {
	s.mu.RLock()
	var found *model.Goal
	for _, g := range s.state.Goals.Goals {
		if g.ID == id {
			c := g
			found = &c
			break
		}
	}
	s.mu.RUnlock()
	if found == nil {
		return false
	}
	s.SetSelectedGoal(found)
	return true
}

// FetchGoalProgress replaces the progress collection with the entries of
// one goal.
func (s *Store) FetchGoalProgress(ctx context.Context, goalID int64) error {
	return s.runGoals(ActionFetchGoalProgress, "Failed to fetch progress", noValidation, func() (func(*State), error) {
		entries, err := s.api.ListProgress(ctx, goalID)
		if err != nil {
			return nil, err
		}
		return func(st *State) { st.Goals.Progress = entries }, nil
	})
}

// LogProgress records a study session and appends it to the progress
// collection.
func (s *Store) LogProgress(ctx context.Context, goalID int64, in model.ProgressInput) error {
	return s.runGoals(ActionLogProgress, "Failed to log progress",
		func() error {
			if in.Duration <= 0 {
				return apierr.Validation("Duration must be greater than 0")
			}
			return nil
		},
		func() (func(*State), error) {
			p, err := s.api.LogProgress(ctx, goalID, in)
			if err != nil {
				return nil, err
			}
			return func(st *State) { st.Goals.Progress = append(st.Goals.Progress, p) }, nil
		})
}

// ClearGoalsError drops the goals error message.
func (s *Store) ClearGoalsError() {
	s.dispatch(Action{Type: ActionClearGoalsError, Phase: Fulfilled}, func(st *State) {
		st.Goals.Error = ""
	})
}
