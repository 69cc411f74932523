// Package gateway is the single outbound HTTP path to the LearnFlow API. It
// attaches credentials to every call and recovers from expired access tokens
// by running exactly one refresh and replaying the requests that hit a 401
// while it was in flight.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/learnflow/internal/apierr"
	"github.com/Tiliavir/learnflow/internal/credentials"
	"github.com/Tiliavir/learnflow/internal/logging"
)

// Default endpoint paths, relative to the base URL.
const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
	RefreshPath  = "/auth/refresh"
)

// Gateway performs authenticated JSON requests against the API.
type Gateway struct {
	baseURL     *url.URL
	client      *http.Client
	jar         *credentials.Jar
	creds       credentials.Store
	log         *logrus.Entry
	authPaths   map[string]bool
	refreshPath string
	onExpired   func(error)

	mu    sync.RWMutex
	token *oauth2.Token

	refresh refresher
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the client used for requests. Its Jar is replaced by
// the gateway's own cookie jar.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithCredentials sets where tokens and refresh cookies are persisted.
func WithCredentials(s credentials.Store) Option {
	return func(g *Gateway) { g.creds = s }
}

// WithLogger overrides the component logger.
func WithLogger(l *logrus.Entry) Option {
	return func(g *Gateway) { g.log = l }
}

// WithAuthPaths replaces the set of paths that never trigger a refresh.
func WithAuthPaths(paths ...string) Option {
	return func(g *Gateway) {
		g.authPaths = make(map[string]bool, len(paths))
		for _, p := range paths {
			g.authPaths[p] = true
		}
	}
}

// WithRefreshPath sets the token refresh endpoint.
func WithRefreshPath(p string) Option {
	return func(g *Gateway) { g.refreshPath = p }
}

// WithSessionExpiredHook registers fn to be called once per failed refresh,
// after local credentials have been cleared. The UI decides what to do
// (typically send the user to login).
func WithSessionExpiredHook(fn func(error)) Option {
	return func(g *Gateway) { g.onExpired = fn }
}

// New creates a Gateway for baseURL, e.g. "http://localhost:5000/api/v1".
// Persisted credentials, if any, are loaded immediately.
func New(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}

	g := &Gateway{
		baseURL:     u,
		client:      &http.Client{},
		jar:         credentials.NewJar(),
		creds:       &credentials.Memory{},
		log:         logging.NewLogger("gateway"),
		refreshPath: RefreshPath,
	}
	WithAuthPaths(LoginPath, RegisterPath, RefreshPath)(g)
	for _, opt := range opts {
		opt(g)
	}
	g.authPaths[g.refreshPath] = true

	// Copy so a caller-supplied client is not mutated.
	client := *g.client
	client.Jar = g.jar
	g.client = &client

	saved, err := g.creds.Load()
	if err != nil {
		g.log.WithError(err).Warn("Ignoring unreadable stored credentials")
	} else {
		g.token = saved.Token
		g.jar.Restore(saved.Cookies)
	}
	return g, nil
}

// Token returns a copy of the current access token, or nil.
func (g *Gateway) Token() *oauth2.Token {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.token == nil {
		return nil
	}
	t := *g.token
	return &t
}

// HasSession reports whether an access token or any cookie is held, that is
// whether a request could possibly be authenticated.
func (g *Gateway) HasSession() bool {
	return g.accessToken() != "" || len(g.jar.Snapshot()) > 0
}

// SetToken installs a new access token and persists it.
func (g *Gateway) SetToken(accessToken string) {
	g.setToken(newToken(accessToken))
	g.persist()
}

func (g *Gateway) setToken(t *oauth2.Token) {
	g.mu.Lock()
	g.token = t
	g.mu.Unlock()
}

func (g *Gateway) accessToken() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.token == nil {
		return ""
	}
	return g.token.AccessToken
}

// ClearCredentials forgets the access token and all cookies, locally and in
// the credential store.
func (g *Gateway) ClearCredentials() {
	g.setToken(nil)
	g.jar.Reset()
	if err := g.creds.Clear(); err != nil {
		g.log.WithError(err).Warn("Could not clear stored credentials")
	}
}

// Refreshes returns how many refresh calls this gateway has issued.
func (g *Gateway) Refreshes() int {
	g.refresh.mu.Lock()
	defer g.refresh.mu.Unlock()
	return g.refresh.count
}

func (g *Gateway) persist() {
	c := credentials.Credentials{
		Token:   g.Token(),
		Cookies: g.jar.Snapshot(),
	}
	if err := g.creds.Save(c); err != nil {
		g.log.WithError(err).Warn("Could not persist credentials")
	}
}

// request is one logical call. The body is kept encoded so it can be
// replayed after a refresh.
type request struct {
	ctx       context.Context
	method    string
	path      string
	body      []byte
	retried   bool
	tokenUsed string
}

// Do sends a JSON request and decodes the response's data envelope into out
// (which may be nil). Non-2xx responses and transport failures are returned
// as *apierr.Error.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
	}

	req := &request{ctx: ctx, method: method, path: path, body: payload}
	data, err := g.execute(req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierr.Wrap(err, apierr.KindServer, fmt.Sprintf("unexpected response from %s %s", method, path))
	}
	return nil
}

func (g *Gateway) execute(req *request) (json.RawMessage, error) {
	data, err := g.send(req)
	if err == nil {
		return data, nil
	}
	if apierr.StatusOf(err) != http.StatusUnauthorized || req.retried || g.isAuthPath(req.path) {
		return nil, err
	}
	return g.recoverUnauthorized(req, err)
}

func (g *Gateway) isAuthPath(path string) bool {
	return g.authPaths[path]
}

func (g *Gateway) resolve(path string) *url.URL {
	u := *g.baseURL
	u.Path = strings.TrimRight(g.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return &u
}

// send performs a single HTTP exchange with the current credentials.
func (g *Gateway) send(req *request) (json.RawMessage, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(req.ctx, req.method, g.resolve(req.path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	g.mu.RLock()
	tok := g.token
	if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(httpReq)
		req.tokenUsed = tok.AccessToken
	} else {
		req.tokenUsed = ""
	}
	g.mu.RUnlock()

	log := g.log.WithFields(logrus.Fields{
		"method":     req.method,
		"path":       req.path,
		"request_id": requestID,
		"retried":    req.retried,
	})

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if ctxErr := req.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).Debug("Request failed")
		return nil, apierr.Network(err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, apierr.Network(fmt.Errorf("reading response body: %w", err))
	}
	log.WithField("status", resp.StatusCode).Debug("Response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierr.FromResponse(resp.StatusCode, raw)
	}
	if g.isAuthPath(req.path) || len(resp.Header.Values("Set-Cookie")) > 0 {
		defer g.persist()
	}
	return unwrapData(raw), nil
}

// unwrapData returns the "data" member of a {"data": ...} envelope, or the
// whole body when it is not enveloped.
func unwrapData(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Data != nil {
			return env.Data
		}
	}
	return trimmed
}
