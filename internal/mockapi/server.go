// Package mockapi is an in-memory LearnFlow API. It backs the client's tests
// and the `learnflow mock-server` command; it is not the production server.
package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Tiliavir/learnflow/internal/model"
)

const refreshCookie = "refreshToken"

// Server holds all mock state behind a single lock.
type Server struct {
	mu         sync.RWMutex
	secret     []byte
	accessTTL  time.Duration
	generation int

	users         map[string]*account // by email
	refreshTokens map[string]string   // token -> user id
	goals         map[string][]model.Goal
	progress      map[int64][]model.Progress
	recs          []model.Recommendation
	interactions  []model.Interaction
	nextID        int64
	refreshes     int

	engine *gin.Engine
}

type account struct {
	user     model.User
	password string
}

// Claims are the access token claims issued by the mock.
type Claims struct {
	UserID     string `json:"user_id"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

// Option configures a Server.
type Option func(*Server)

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// WithRecommendations replaces the seeded recommendations.
func WithRecommendations(recs ...model.Recommendation) Option {
	return func(s *Server) { s.recs = recs }
}

// New creates a Server with a few seeded recommendations.
func New(opts ...Option) *Server {
	s := &Server{
		secret:        []byte(uuid.NewString()),
		accessTTL:     15 * time.Minute,
		users:         map[string]*account{},
		refreshTokens: map[string]string{},
		goals:         map[string][]model.Goal{},
		progress:      map[int64][]model.Progress{},
		recs:          defaultRecommendations(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving /api/v1.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ExpireAccessTokens invalidates every access token issued so far. Refresh
// tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// RevokeRefreshTokens invalidates every refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = map[string]string{}
}

// Refreshes returns how many successful refresh calls were served.
func (s *Server) Refreshes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshes
}

// Interactions returns the recorded recommendation interactions.
func (s *Server) Interactions() []model.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Interaction(nil), s.interactions...)
}

func defaultRecommendations() []model.Recommendation {
	now := time.Now().UTC().Format(time.RFC3339)
	return []model.Recommendation{
		{ID: 1, Title: "A Tour of Go", Reason: "Interactive introduction to Go", URL: "https://go.dev/tour", Type: "TUTORIAL", Tags: "go,beginner", CreatedAt: now},
		{ID: 2, Title: "Effective Go", Reason: "Idioms used by experienced Go programmers", URL: "https://go.dev/doc/effective_go", Type: "DOCUMENTATION", Tags: "go", CreatedAt: now},
		{ID: 3, Title: "Concurrency is not Parallelism", Reason: "Talk on Go's concurrency model", URL: "https://go.dev/blog/waza-talk", Type: "VIDEO", Tags: "go,concurrency", CreatedAt: now},
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", s.login)
	v1.POST("/auth/register", s.register)
	v1.POST("/auth/refresh", s.refresh)

	authed := v1.Group("", s.requireAuth)
	authed.GET("/auth/me", s.me)
	authed.POST("/auth/logout", s.logout)
	authed.GET("/goals", s.listGoals)
	authed.POST("/goals", s.createGoal)
	authed.PATCH("/goals/:id", s.updateGoal)
	authed.DELETE("/goals/:id", s.deleteGoal)
	authed.GET("/goals/:id/progress", s.listProgress)
	authed.POST("/goals/:id/progress", s.logProgress)
	authed.GET("/resources/recommendations", s.listRecommendations)
	authed.POST("/resources/interactions", s.trackInteraction)
	return r
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func (s *Server) issueAccess(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     userID,
		Generation: s.generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// startSession issues both tokens; callers hold s.mu.
func (s *Server) startSession(c *gin.Context, u model.User) {
	access, err := s.issueAccess(u.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	refresh := uuid.NewString()
	s.refreshTokens[refresh] = u.ID
	c.SetCookie(refreshCookie, refresh, 7*24*3600, "/", "", false, true)
	ok(c, http.StatusOK, gin.H{"user": u, "accessToken": access})
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		fail(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		fail(c, http.StatusUnauthorized, "jwt expired")
		return
	}
	s.mu.RLock()
	stale := claims.Generation != s.generation
	s.mu.RUnlock()
	if stale {
		fail(c, http.StatusUnauthorized, "jwt expired")
		return
	}
	c.Set("userID", claims.UserID)
	c.Next()
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

func (s *Server) login(c *gin.Context) {
	var in model.Credentials
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, exists := s.users[strings.ToLower(in.Email)]
	if !exists || acc.password != in.Password {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.startSession(c, acc.user)
}

func (s *Server) register(c *gin.Context) {
	var in model.Registration
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" || in.Email == "" || in.Password == "" {
		fail(c, http.StatusBadRequest, "name, email and password are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(in.Email)
	if _, exists := s.users[key]; exists {
		fail(c, http.StatusConflict, "Email already registered")
		return
	}
	u := model.User{ID: uuid.NewString(), Email: in.Email, Name: in.Name}
	s.users[key] = &account{user: u, password: in.Password}
	s.startSession(c, u)
}

func (s *Server) refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		fail(c, http.StatusUnauthorized, "refresh token missing")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, exists := s.refreshTokens[token]
	if !exists {
		fail(c, http.StatusUnauthorized, "refresh token invalid")
		return
	}
	access, err := s.issueAccess(uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	s.refreshes++
	ok(c, http.StatusOK, gin.H{"accessToken": access})
}

func (s *Server) me(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.users {
		if acc.user.ID == userID(c) {
			ok(c, http.StatusOK, acc.user)
			return
		}
	}
	fail(c, http.StatusUnauthorized, "unknown user")
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(refreshCookie); err == nil {
		s.mu.Lock()
		delete(s.refreshTokens, token)
		s.mu.Unlock()
	}
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
	ok(c, http.StatusOK, gin.H{"loggedOut": true})
}

// goalIndex finds a goal of the current user; callers hold s.mu.
func (s *Server) goalIndex(c *gin.Context) (int64, int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid goal id")
		return 0, 0, false
	}
	for i, g := range s.goals[userID(c)] {
		if g.ID == id {
			return id, i, true
		}
	}
	fail(c, http.StatusNotFound, "Goal not found")
	return id, 0, false
}

func (s *Server) listGoals(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goals := append([]model.Goal{}, s.goals[userID(c)]...)
	ok(c, http.StatusOK, goals)
}

func (s *Server) createGoal(c *gin.Context) {
	var in model.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		fail(c, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	if _, err := model.ParseTargetDate(in.TargetDate); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Target date must be a valid date")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC().Format(time.RFC3339)
	zero := 0
	g := model.Goal{
		ID:          s.nextID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.GoalActive,
		TargetDate:  in.TargetDate,
		Progress:    &zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.goals[userID(c)] = append(s.goals[userID(c)], g)
	ok(c, http.StatusCreated, g)
}

func (s *Server) updateGoal(c *gin.Context) {
	var patch model.GoalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		fail(c, http.StatusUnprocessableEntity, "Invalid status")
		return
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		fail(c, http.StatusUnprocessableEntity, "Progress must be between 0 and 100")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i, found := s.goalIndex(c)
	if !found {
		return
	}
	goals := s.goals[userID(c)]
	g := patch.Apply(goals[i])
	g.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	goals[i] = g
	ok(c, http.StatusOK, g)
}

func (s *Server) deleteGoal(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, i, found := s.goalIndex(c)
	if !found {
		return
	}
	goals := s.goals[userID(c)]
	s.goals[userID(c)] = append(goals[:i:i], goals[i+1:]...)
	delete(s.progress, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listProgress(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, _, found := s.goalIndex(c)
	if !found {
		return
	}
	ok(c, http.StatusOK, append([]model.Progress{}, s.progress[id]...))
}

func (s *Server) logProgress(c *gin.Context) {
	var in model.ProgressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Duration <= 0 {
		fail(c, http.StatusUnprocessableEntity, "Duration must be greater than 0")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _, found := s.goalIndex(c)
	if !found {
		return
	}
	s.nextID++
	p := model.Progress{
		ID:        s.nextID,
		GoalID:    id,
		Notes:     in.Notes,
		Duration:  in.Duration,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.progress[id] = append(s.progress[id], p)
	ok(c, http.StatusCreated, p)
}

func (s *Server) listRecommendations(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ok(c, http.StatusOK, append([]model.Recommendation{}, s.recs...))
}

func (s *Server) trackInteraction(c *gin.Context) {
	var in model.Interaction
	if err := c.ShouldBindJSON(&in); err != nil || in.RecommendationID == 0 || in.Type == "" {
		fail(c, http.StatusBadRequest, "recommendationId and type are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, in)
	ok(c, http.StatusCreated, in)
}
