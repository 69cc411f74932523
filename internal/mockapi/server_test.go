package mockapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/learnflow/internal/mockapi"
	"github.com/Tiliavir/learnflow/internal/model"
)

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler) (string, *http.Cookie) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/auth/register", "",
		model.Registration{Name: "Ada", Email: "ada@x.com", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			User        model.User `json:"user"`
			AccessToken string     `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.AccessToken)

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	return out.Data.AccessToken, refresh
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := mockapi.New().Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/goals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"authentication required"}`, rec.Body.String())
}

func TestExpiredTokenAndRefresh(t *testing.T) {
	s := mockapi.New()
	h := s.Handler()
	token, cookie := register(t, h)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/goals", token, nil).Code)

	s.ExpireAccessTokens()
	rec := do(t, h, http.MethodGet, "/api/v1/goals", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(cookie)
	refreshRec := httptest.NewRecorder()
	h.ServeHTTP(refreshRec, req)
	require.Equal(t, http.StatusOK, refreshRec.Code)
	assert.Equal(t, 1, s.Refreshes())

	var out struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(refreshRec.Body.Bytes(), &out))
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/goals", out.Data.AccessToken, nil).Code)
}

func TestCreateGoalValidation(t *testing.T) {
	h := mockapi.New().Handler()
	token, _ := register(t, h)

	tests := []struct {
		in      model.GoalInput
		status  int
		message string
	}{
		{model.GoalInput{TargetDate: "2025-01-01"}, http.StatusUnprocessableEntity, "Title is required"},
		{model.GoalInput{Title: "Go", TargetDate: "soon"}, http.StatusUnprocessableEntity, "Target date must be a valid date"},
		{model.GoalInput{Title: "Go", TargetDate: "2025-01-01"}, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/api/v1/goals", token, tt.in)
		assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		if tt.message != "" {
			assert.Contains(t, rec.Body.String(), tt.message)
		}
	}
}

func TestWithRecommendations(t *testing.T) {
	h := mockapi.New(mockapi.WithRecommendations(model.Recommendation{ID: 9, Title: "Only one", Type: "BOOK"})).Handler()
	token, _ := register(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/resources/recommendations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data []model.Recommendation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, int64(9), out.Data[0].ID)
}
