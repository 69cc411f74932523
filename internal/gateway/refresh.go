package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/learnflow/internal/apierr"
)

// refresher is the IDLE/REFRESHING state machine. Only the caller that flips
// refreshing from false to true issues the refresh call; every other 401
// observed while it is true is parked in queue until the refresh settles.
// The queue is empty whenever refreshing is false.
type refresher struct {
	mu         sync.Mutex
	refreshing bool
	queue      []*waiter
	count      int
}

type waiter struct {
	req  *request
	done chan result
}

type result struct {
	data json.RawMessage
	err  error
}

// recoverUnauthorized handles a 401 on a request that has not been retried yet.
func (g *Gateway) recoverUnauthorized(req *request, cause error) (json.RawMessage, error) {
	r := &g.refresh

	r.mu.Lock()
	if r.refreshing {
		w := &waiter{req: req, done: make(chan result, 1)}
		r.queue = append(r.queue, w)
		r.mu.Unlock()
		g.log.WithField("path", req.path).Debug("Refresh in flight, queued request")

		select {
		case res := <-w.done:
			return res.data, res.err
		case <-req.ctx.Done():
			return nil, req.ctx.Err()
		}
	}

	// The token was rotated by a refresh that finished after this request
	// was sent: replay with the new token instead of refreshing again.
	current := g.accessToken()
	if current != "" && current != req.tokenUsed {
		r.mu.Unlock()
		req.retried = true
		return g.send(req)
	}
	// The session ended (failed refresh or logout) after this request was
	// sent: there is nothing left to refresh with.
	if current == "" && req.tokenUsed != "" {
		r.mu.Unlock()
		return nil, apierr.SessionExpired(cause)
	}

	r.refreshing = true
	r.count++
	r.mu.Unlock()

	req.retried = true
	g.log.WithError(cause).WithField("path", req.path).Info("Access token rejected, refreshing")

	// One caller giving up must not fail the refresh for everyone queued
	// behind it; the HTTP client timeout still bounds the call.
	// Credentials are settled before the gate reopens, so a late 401 either
	// sees the new token or the cleared session.
	tok, err := g.refreshToken(context.WithoutCancel(req.ctx))
	if err == nil {
		g.setToken(tok)
		g.persist()
	} else {
		g.ClearCredentials()
	}

	r.mu.Lock()
	queue := r.queue
	r.queue = nil
	r.refreshing = false
	r.mu.Unlock()

	if err != nil {
		expired := apierr.SessionExpired(err)
		g.log.WithError(err).WithField("queued", len(queue)).Warn("Token refresh failed, session expired")
		for _, w := range queue {
			w.done <- result{err: expired}
		}
		if g.onExpired != nil {
			g.onExpired(expired)
		}
		return nil, expired
	}

	g.log.WithField("queued", len(queue)).Info("Token refreshed, replaying requests")
	for _, w := range queue {
		w.req.retried = true
		if ctxErr := w.req.ctx.Err(); ctxErr != nil {
			w.done <- result{err: ctxErr}
			continue
		}
		data, err := g.send(w.req)
		w.done <- result{data: data, err: err}
	}
	return g.send(req)
}

// refreshToken calls the refresh endpoint. The long-lived credential travels
// as a cookie, so the request has no body.
func (g *Gateway) refreshToken(ctx context.Context) (*oauth2.Token, error) {
	data, err := g.send(&request{ctx: ctx, method: http.MethodPost, path: g.refreshPath, retried: true})
	if err != nil {
		return nil, err
	}
	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apierr.Wrap(err, apierr.KindServer, "unexpected refresh response")
	}
	if payload.AccessToken == "" {
		return nil, apierr.Wrap(errors.New("no access token in refresh response"), apierr.KindAuth, "refresh rejected")
	}
	return newToken(payload.AccessToken), nil
}

// newToken wraps an access token. When it is a JWT carrying an exp claim the
// expiry is recorded so Token.Valid reflects it; the signature is not checked
// here, the server does that.
func newToken(access string) *oauth2.Token {
	if access == "" {
		return nil
	}
	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err == nil && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok
}

// Expiry returns the current token's expiry, or the zero time when unknown.
func (g *Gateway) Expiry() time.Time {
	if t := g.Token(); t != nil {
		return t.Expiry
	}
	return time.Time{}
}
