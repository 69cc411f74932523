package store

import (
	"context"
	"strings"

	"github.com/Tiliavir/learnflow/internal/apierr"
	"github.com/Tiliavir/learnflow/internal/model"
)

const (
	ActionLogin          = "auth/login"
	ActionRegister       = "auth/register"
	ActionGetCurrentUser = "auth/getCurrentUser"
	ActionLogout         = "auth/logout"
	ActionClearAuthError = "auth/clearError"
)

func authPending(st *State) {
	st.Auth.IsLoading = true
	st.Auth.Error = ""
}

func authenticated(u model.User) func(*State) {
	return func(st *State) {
		st.Auth = AuthState{User: &u, IsAuthenticated: true}
	}
}

func authFailed(msg string) func(*State) {
	return func(st *State) {
		st.Auth.IsLoading = false
		st.Auth.Error = msg
	}
}

// Login signs in with email and password.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.dispatch(Action{Type: ActionLogin, Phase: Pending}, authPending)

	var err error
	var u model.User
	if strings.TrimSpace(email) == "" || password == "" {
		err = apierr.Validation("Email and password are required")
	} else {
		u, err = s.api.Login(ctx, strings.TrimSpace(email), password)
	}
	if err != nil {
		s.dispatch(Action{Type: ActionLogin, Phase: Rejected, Err: err}, authFailed(errorMessage(err, "Login failed")))
		return err
	}
	s.dispatch(Action{Type: ActionLogin, Phase: Fulfilled}, authenticated(u))
	return nil
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.dispatch(Action{Type: ActionRegister, Phase: Pending}, authPending)

	var err error
	var u model.User
	switch {
	case strings.TrimSpace(name) == "":
		err = apierr.Validation("Name is required")
	case strings.TrimSpace(email) == "" || password == "":
		err = apierr.Validation("Email and password are required")
	default:
		u, err = s.api.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	}
	if err != nil {
		s.dispatch(Action{Type: ActionRegister, Phase: Rejected, Err: err}, authFailed(errorMessage(err, "Registration failed")))
		return err
	}
	s.dispatch(Action{Type: ActionRegister, Phase: Fulfilled}, authenticated(u))
	return nil
}

// GetCurrentUser asks the server for the current session. A failure is
// not reported to the caller: the session is simply reset to
// unauthenticated. The rejected action still carries the cause.
func (s *Store) GetCurrentUser(ctx context.Context) error {
	s.dispatch(Action{Type: ActionGetCurrentUser, Phase: Pending}, authPending)

	u, err := s.api.Me(ctx)
	if err != nil {
		s.log.WithError(err).Debug("no current session")
		s.dispatch(Action{Type: ActionGetCurrentUser, Phase: Rejected, Err: err}, func(st *State) {
			st.Auth = AuthState{}
		})
		return nil
	}
	s.dispatch(Action{Type: ActionGetCurrentUser, Phase: Fulfilled}, authenticated(u))
	return nil
}

// Logout ends the session. Local state is reset and credentials are cleared
// whatever the server answers; the remote error is returned for logging.
func (s *Store) Logout(ctx context.Context) error {
	s.dispatch(Action{Type: ActionLogout, Phase: Pending}, authPending)

	err := s.api.Logout(ctx)
	phase := Fulfilled
	if err != nil {
		s.log.WithError(err).Warn("remote logout failed")
		phase = Rejected
	}
	s.dispatch(Action{Type: ActionLogout, Phase: phase, Err: err}, func(st *State) {
		*st = State{}
	})
	return err
}

// ClearAuthError drops the session error message.
func (s *Store) ClearAuthError() {
	s.dispatch(Action{Type: ActionClearAuthError, Phase: Fulfilled}, func(st *State) {
		st.Auth.Error = ""
	})
}
