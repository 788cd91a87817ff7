package internal

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/sitekit/pkg/cookie"
)

const defaultAuthCookieName = ".sitekit.auth"

// AuthCookie describes the application authentication cookie.
// The value is the user ID, encrypted with the cookie manager's secret.
type AuthCookie struct {
	name   string
	domain string
	path   string
	maxAge int
}

// AuthCookieOption configures the AuthCookie.
type AuthCookieOption func(*AuthCookie)

// NewAuthCookie creates the auth cookie description.
// An empty name falls back to ".sitekit.auth".
func NewAuthCookie(name string, opts ...AuthCookieOption) *AuthCookie {
	if name == "" {
		name = defaultAuthCookieName
	}
	a := &AuthCookie{name: name, path: "/"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithAuthCookieDomain sets the cookie domain.
func WithAuthCookieDomain(domain string) AuthCookieOption {
	return func(a *AuthCookie) {
		a.domain = domain
	}
}

// WithAuthCookiePath sets the cookie path. Default: "/".
func WithAuthCookiePath(path string) AuthCookieOption {
	return func(a *AuthCookie) {
		if path != "" {
			a.path = path
		}
	}
}

// WithAuthCookieMaxAge makes the cookie persistent for the given seconds.
// Zero keeps it for the browser session.
func WithAuthCookieMaxAge(seconds int) AuthCookieOption {
	return func(a *AuthCookie) {
		if seconds >= 0 {
			a.maxAge = seconds
		}
	}
}

// Name returns the cookie name.
func (a *AuthCookie) Name() string { return a.name }

// Domain returns the cookie domain.
func (a *AuthCookie) Domain() string { return a.domain }

// Path returns the cookie path.
func (a *AuthCookie) Path() string { return a.path }

func (a *AuthCookie) options() []cookie.SetOption {
	return []cookie.SetOption{cookie.Essential(), cookie.InDomain(a.domain), cookie.AtPath(a.path)}
}

// userID returns the authenticated user. Missing or tampered cookies yield "".
func (a *AuthCookie) userID(m *cookie.Manager, r *http.Request) (string, error) {
	uid, err := m.GetEncrypted(r, a.name)
	switch {
	case errors.Is(err, cookie.ErrNotFound), errors.Is(err, cookie.ErrDecrypt):
		return "", nil
	case err != nil:
		return "", err
	}
	return uid, nil
}

func (a *AuthCookie) signIn(m *cookie.Manager, w http.ResponseWriter, r *http.Request, userID string) error {
	return m.SetEncrypted(w, r, a.name, userID, a.maxAge, a.options()...)
}

func (a *AuthCookie) signOut(m *cookie.Manager, w http.ResponseWriter, r *http.Request) {
	m.Delete(w, r, a.name, a.options()...)
}
