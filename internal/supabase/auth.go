package supabase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"daftar/internal/model"
)

// AuthEvent names one auth state transition. Observers get exactly one call
// per transition.
type AuthEvent string

const (
	AuthSignedIn  AuthEvent = "signedIn"
	AuthSignedOut AuthEvent = "signedOut"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignUp registers a new account. The backend signs the user in right away,
// so a session comes back on success.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	return c.adoptToken(resp)
}

// SignIn performs the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	return c.adoptToken(resp)
}

// SignOut revokes the session server-side, drops it locally either way, and
// notifies observers.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.RLock()
	signedIn := c.session != nil
	c.mu.RUnlock()
	if !signedIn {
		return nil
	}

	err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil)

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.notifyAuth(AuthSignedOut)
	return err
}

// CurrentUser reports the signed-in user, if any.
func (c *Client) CurrentUser() (model.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return model.User{}, false
	}
	return model.User{ID: c.session.UserID, Email: c.session.Email}, true
}

// Session returns a copy of the current session for persistence.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// RestoreSession adopts a previously persisted session. An expired token is
// rejected so the caller falls through to the login surface.
func (c *Client) RestoreSession(sess Session) error {
	if sess.AccessToken == "" {
		return model.ErrAuthRequired
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return fmt.Errorf("session expired: %w", model.ErrAuthRequired)
	}
	if sess.UserID == "" {
		claims, err := tokenClaims(sess.AccessToken)
		if err != nil {
			return err
		}
		sess.UserID = claims.Subject
		sess.Email = claims.Email
	}

	c.mu.Lock()
	c.session = &sess
	c.mu.Unlock()
	c.notifyAuth(AuthSignedIn)
	return nil
}

// OnAuthStateChange registers fn for sign-in/sign-out transitions and returns
// the unsubscribe handle.
func (c *Client) OnAuthStateChange(fn func(AuthEvent)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Client) notifyAuth(ev AuthEvent) {
	c.subMu.Lock()
	fns := make([]func(AuthEvent), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (c *Client) adoptToken(resp tokenResponse) (*Session, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("no access token in auth response")
	}
	sess := Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	// Some deployments omit the user object on the token grant; the access
	// token carries the same identity in its claims.
	if sess.UserID == "" {
		claims, err := tokenClaims(resp.AccessToken)
		if err != nil {
			return nil, err
		}
		sess.UserID = claims.Subject
		sess.Email = claims.Email
	}

	c.mu.Lock()
	c.session = &sess
	c.mu.Unlock()
	c.notifyAuth(AuthSignedIn)
	return &sess, nil
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// tokenClaims decodes the access token without verifying the signature. The
// client has no signing key; enforcement happens server-side on every call.
func tokenClaims(token string) (*accessClaims, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}
	return &claims, nil
}
