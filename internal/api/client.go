// Package api exposes the LearnFlow endpoints as typed calls on top of the
// gateway.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Tiliavir/learnflow/internal/model"
)

// Doer is the transport the client needs. *gateway.Gateway implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
	SetToken(accessToken string)
	ClearCredentials()
}

// Client is a typed LearnFlow API client.
type Client struct {
	gw Doer
}

// NewClient creates a client that sends every request through gw.
func NewClient(gw Doer) *Client {
	return &Client{gw: gw}
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	return c.authenticate(ctx, "/auth/login", model.Credentials{Email: email, Password: password})
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.User, error) {
	return c.authenticate(ctx, "/auth/register", model.Registration{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (model.User, error) {
	var res model.AuthResult
	if err := c.gw.Do(ctx, http.MethodPost, path, body, &res); err != nil {
		return model.User{}, err
	}
	if res.AccessToken != "" {
		c.gw.SetToken(res.AccessToken)
	}
	return res.User, nil
}

// Me returns the identity of the current session.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.gw.Do(ctx, http.MethodGet, "/auth/me", nil, &u)
	return u, err
}

// Logout ends the server session. Local credentials are cleared even when
// the call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.gw.ClearCredentials()
	return c.gw.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ListGoals returns all goals of the current user.
func (c *Client) ListGoals(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := c.gw.Do(ctx, http.MethodGet, "/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal creates a goal and returns the stored version.
func (c *Client) CreateGoal(ctx context.Context, in model.GoalInput) (model.Goal, error) {
	var g model.Goal
	err := c.gw.Do(ctx, http.MethodPost, "/goals", in, &g)
	return g, err
}

// UpdateGoal applies a partial update and returns the stored version.
func (c *Client) UpdateGoal(ctx context.Context, id int64, patch model.GoalPatch) (model.Goal, error) {
	var g model.Goal
	err := c.gw.Do(ctx, http.MethodPatch, fmt.Sprintf("/goals/%d", id), patch, &g)
	return g, err
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, id int64) error {
	return c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/goals/%d", id), nil, nil)
}

// ListProgress returns the progress entries logged against a goal.
func (c *Client) ListProgress(ctx context.Context, goalID int64) ([]model.Progress, error) {
	var entries []model.Progress
	if err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/goals/%d/progress", goalID), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LogProgress records a study session against a goal.
func (c *Client) LogProgress(ctx context.Context, goalID int64, in model.ProgressInput) (model.Progress, error) {
	var p model.Progress
	err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf("/goals/%d/progress", goalID), in, &p)
	return p, err
}

// ListRecommendations returns the resources recommended for the user.
func (c *Client) ListRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	if err := c.gw.Do(ctx, http.MethodGet, "/resources/recommendations", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// TrackInteraction records that the user interacted with a recommendation.
func (c *Client) TrackInteraction(ctx context.Context, recommendationID int64, kind string) error {
	return c.gw.Do(ctx, http.MethodPost, "/resources/interactions",
		model.Interaction{RecommendationID: recommendationID, Type: kind}, nil)
}
