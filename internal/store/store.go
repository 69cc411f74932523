// Package store mirrors the server's session, goals and recommendations in
// memory. Every asynchronous operation moves its slice through
// pending -> fulfilled | rejected and publishes each phase to subscribers.
package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/learnflow/internal/apierr"
	"github.com/Tiliavir/learnflow/internal/logging"
	"github.com/Tiliavir/learnflow/internal/model"
)

// API is the set of server calls the store drives. *api.Client implements it.
type API interface {
	Login(ctx context.Context, email, password string) (model.User, error)
	Register(ctx context.Context, name, email, password string) (model.User, error)
	Me(ctx context.Context) (model.User, error)
	Logout(ctx context.Context) error
	ListGoals(ctx context.Context) ([]model.Goal, error)
	CreateGoal(ctx context.Context, in model.GoalInput) (model.Goal, error)
	UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) (model.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error
	ListProgress(ctx context.Context, goalID int64) ([]model.Progress, error)
	LogProgress(ctx context.Context, goalID int64, in model.ProgressInput) (model.Progress, error)
	ListRecommendations(ctx context.Context) ([]model.Recommendation, error)
	TrackInteraction(ctx context.Context, recommendationID int64, kind string) error
}

// Phase is the lifecycle step of an operation.
type Phase string

const (
	Pending   Phase = "pending"
	Fulfilled Phase = "fulfilled"
	Rejected  Phase = "rejected"
)

// Action describes one state transition, e.g. {"goals/fetchGoals", Rejected, err}.
type Action struct {
	Type  string
	Phase Phase
	Err   error
}

// AuthState is the session slice.
type AuthState struct {
	User            *model.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// GoalsState is the goals slice.
type GoalsState struct {
	Goals        []model.Goal
	SelectedGoal *model.Goal
	Progress     []model.Progress
	IsLoading    bool
	Error        string
}

// ResourcesState is the recommendations slice.
type ResourcesState struct {
	Recommendations []model.Recommendation
	IsLoading       bool
	Error           string
}

// State is a point-in-time copy of all slices.
type State struct {
	Auth      AuthState
	Goals     GoalsState
	Resources ResourcesState
}

// Listener observes every transition. It runs after the store lock has been
// released and receives a copy of the new state.
type Listener func(Action, State)

// Store holds the client-side state.
type Store struct {
	api API
	log *logrus.Entry

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fire-and-forget failures.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.log = l }
}

// New creates an empty, unauthenticated store backed by api.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:       api,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.NewLogger("store")
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// dispatch applies mutate under the lock and notifies listeners.
func (s *Store) dispatch(a Action, mutate func(*State)) {
	s.mu.Lock()
	if mutate != nil {
		mutate(&s.state)
	}
	snap := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(a, snap)
	}
}

// errorMessage picks the text shown for a rejected operation: the server's
// message when one was received, fallback otherwise.
func errorMessage(err error, fallback string) string {
	switch apierr.KindOf(err) {
	case "", apierr.KindNetwork:
		return fallback
	}
	return apierr.Message(err, fallback)
}

func (st State) clone() State {
	out := st
	if st.Auth.User != nil {
		u := *st.Auth.User
		out.Auth.User = &u
	}
	out.Goals.Goals = append([]model.Goal(nil), st.Goals.Goals...)
	out.Goals.Progress = append([]model.Progress(nil), st.Goals.Progress...)
	if st.Goals.SelectedGoal != nil {
		g := *st.Goals.SelectedGoal
		out.Goals.SelectedGoal = &g
	}
	out.Resources.Recommendations = append([]model.Recommendation(nil), st.Resources.Recommendations...)
	return out
}
