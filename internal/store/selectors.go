package store

import (
	"sort"
	"strings"

	"github.com/Tiliavir/learnflow/internal/model"
)

// Stats are the dashboard counters.
type Stats struct {
	ActiveGoals    int
	CompletedGoals int
	Resources      int
}

// Stats counts goals that are still open, finished goals and loaded
// recommendations.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Stats
	for _, g := range s.state.Goals.Goals {
		switch g.Status {
		case model.GoalCompleted:
			st.CompletedGoals++
		case model.GoalArchived:
		default:
			st.ActiveGoals++
		}
	}
	st.Resources = len(s.state.Resources.Recommendations)
	return st
}

// ActiveGoals returns the goals that are neither completed nor archived.
func (s *Store) ActiveGoals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Goal
	for _, g := range s.state.Goals.Goals {
		if g.Status != model.GoalCompleted && g.Status != model.GoalArchived {
			out = append(out, g)
		}
	}
	return out
}

// FilterRecommendations returns the recommendations whose title or reason
// contains search and whose type equals typ, both case-insensitively. Empty
// arguments match everything.
func (s *Store) FilterRecommendations(search, typ string) []model.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search = strings.ToLower(strings.TrimSpace(search))
	var out []model.Recommendation
	for _, r := range s.state.Resources.Recommendations {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Title), search) &&
			!strings.Contains(strings.ToLower(r.Reason), search) {
			continue
		}
		if typ != "" && !strings.EqualFold(r.Type, typ) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RecommendationTypes returns the distinct recommendation types, sorted.
func (s *Store) RecommendationTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var types []string
	for _, r := range s.state.Resources.Recommendations {
		if r.Type == "" || seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		types = append(types, r.Type)
	}
	sort.Strings(types)
	return types
}

// TotalProgressMinutes sums the durations of the loaded progress entries.
func (s *Store) TotalProgressMinutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, p := range s.state.Goals.Progress {
		total += p.Duration
	}
	return total
}
