package store

import (
	"context"

	"github.com/Tiliavir/learnflow/internal/model"
)

const (
	ActionFetchRecommendations = "resources/fetchRecommendations"
	ActionTrackInteraction     = "resources/trackInteraction"
	ActionClearResourcesError  = "resources/clearError"
)

// FetchRecommendations replaces the recommendation collection.
func (s *Store) FetchRecommendations(ctx context.Context) error {
	s.dispatch(Action{Type: ActionFetchRecommendations, Phase: Pending}, func(st *State) {
		st.Resources.IsLoading = true
		st.Resources.Error = ""
	})

	recs, err := s.api.ListRecommendations(ctx)
	if err != nil {
		msg := errorMessage(err, "Failed to fetch recommendations")
		s.dispatch(Action{Type: ActionFetchRecommendations, Phase: Rejected, Err: err}, func(st *State) {
			st.Resources.IsLoading = false
			st.Resources.Error = msg
		})
		return err
	}
	s.dispatch(Action{Type: ActionFetchRecommendations, Phase: Fulfilled}, func(st *State) {
		st.Resources = ResourcesState{Recommendations: recs}
	})
	return nil
}

// TrackInteraction tells the server the user interacted with a
// recommendation. It never changes state and failures are only logged.
func (s *Store) TrackInteraction(ctx context.Context, recommendationID int64, kind string) {
	if kind == "" {
		kind = model.InteractionView
	}
	s.dispatch(Action{Type: ActionTrackInteraction, Phase: Pending}, nil)
	if err := s.api.TrackInteraction(ctx, recommendationID, kind); err != nil {
		s.log.WithError(err).WithField("recommendation_id", recommendationID).Warn("tracking interaction failed")
		s.dispatch(Action{Type: ActionTrackInteraction, Phase: Rejected, Err: err}, nil)
		return
	}
	s.dispatch(Action{Type: ActionTrackInteraction, Phase: Fulfilled}, nil)
}

// ClearResourcesError drops the recommendations error message.
func (s *Store) ClearResourcesError() {
	s.dispatch(Action{Type: ActionClearResourcesError, Phase: Fulfilled}, func(st *State) {
		st.Resources.Error = ""
	})
}
