package store

import (
	"fmt"
	"path/filepath"

	"github.com/Tiliavir/learnflow/internal/storage"
)

// selection is the client state kept between CLI runs.
type selection struct {
	SelectedGoalID int64 `json:"selectedGoalId,omitempty"`
}

// StatePath returns the default location of the persisted client state.
func StatePath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "state.json"), nil
}

// SaveSelection writes the id of the selected goal to path. With no goal
// selected the file is removed.
func (s *Store) SaveSelection(path string) error {
	s.mu.RLock()
	sel := s.state.Goals.SelectedGoal
	s.mu.RUnlock()

	if sel == nil {
		return storage.Remove(path)
	}
	if err := storage.SaveJSON(path, selection{SelectedGoalID: sel.ID}); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	return nil
}

// LoadSelection reads the goal id saved by SaveSelection. It returns 0 when
// nothing was saved.
func LoadSelection(path string) (int64, error) {
	var sel selection
	if _, err := storage.LoadJSON(path, &sel); err != nil {
		return 0, fmt.Errorf("loading selection: %w", err)
	}
	return sel.SelectedGoalID, nil
}
