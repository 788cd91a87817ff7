package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/forwarded"
	"github.com/dmitrymomot/sitekit/pkg/id"
	"github.com/dmitrymomot/sitekit/pkg/logger"
	"github.com/dmitrymomot/sitekit/pkg/session"
)

// Default session configuration.
const (
	defaultSessionCookieName  = ".sitekit.session"
	defaultSessionIdleTimeout = 30 * time.Minute
	sessionTokenBytes         = 32
)

// SessionManager handles session lifecycle and the session cookie.
// The cookie is essential, carries no expiry and lives as long as the browser
// session; the server side expires after the idle timeout, which restarts on
// every request that loads the session.
type SessionManager struct {
	store       session.Store
	logger      *slog.Logger
	newID       func() string
	cookieName  string
	domain      string
	path        string
	idleTimeout time.Duration
	secure      cookie.SecurePolicy
	sameSite    http.SameSite
	httpOnly    bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:       store,
		logger:      logger.NewNope(),
		newID:       uuid.NewString,
		cookieName:  defaultSessionCookieName,
		idleTimeout: defaultSessionIdleTimeout,
		path:        "/",
		httpOnly:    true,
		secure:      cookie.SecureSameAsRequest,
		sameSite:    http.SameSiteNoneMode,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionIdleTimeout sets how long a session survives without requests.
// Default: 30 minutes.
func WithSessionIdleTimeout(d time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if d > 0 {
			sm.idleTimeout = d
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.domain = domain
	}
}

// WithSessionPath sets the session cookie path.
func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.path = path
		}
	}
}

// WithSessionSecurePolicy decides the Secure flag of the session cookie.
func WithSessionSecurePolicy(p cookie.SecurePolicy) SessionOption {
	return func(sm *SessionManager) {
		sm.secure = p
	}
}

// WithSessionSameSite sets the SameSite mode of the session cookie.
// Default: None.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.sameSite = sameSite
	}
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return func(sm *SessionManager) {
		sm.httpOnly = httpOnly
	}
}

// WithSessionIDGenerator replaces the session ID generator. Default: UUIDv4.
func WithSessionIDGenerator(fn func() string) SessionOption {
	return func(sm *SessionManager) {
		if fn != nil {
			sm.newID = fn
		}
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// IdleTimeout returns the sliding expiration window.
func (sm *SessionManager) IdleTimeout() time.Duration {
	return sm.idleTimeout
}

// Load returns the session referenced by the request cookie and slides its
// expiry. Returns nil, nil when there is no cookie or the session is gone.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(sm.cookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, c.Value)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return nil, nil
	case err != nil:
		return nil, err
	}

	sess.Touch(time.Now(), sm.idleTimeout)
	if err := sm.store.Touch(ctx, sess.ID, sess.LastActiveAt, sess.ExpiresAt); err != nil {
		sm.logger.WarnContext(ctx, "failed to touch session",
			slog.String("session_id", sess.ID),
			slog.Any("error", err),
		)
	}

	return sess, nil
}

// Create stores a new session for the request's client.
func (sm *SessionManager) Create(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := id.NewToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := session.New(sm.newID(), token, sm.idleTimeout)
	sess.IP = forwarded.ClientIP(r)
	sess.UserAgent = r.UserAgent()

	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	sess.ClearNew()
	sess.ClearDirty()
	return sess, nil
}

// Rotate issues a new token for the session.
// Called on sign-in so a token planted before authentication becomes useless.
func (sm *SessionManager) Rotate(ctx context.Context, sess *session.Session) error {
	oldToken := sess.Token
	token, err := id.NewToken(sessionTokenBytes)
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}
	sess.Token = token
	sess.MarkDirty()

	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = oldToken
		return err
	}
	sess.ClearDirty()
	return nil
}

// Save writes the session cookie.
func (sm *SessionManager) Save(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sm.setCookie(w, r, sess.Token, 0)
}

// Clear removes the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	sm.setCookie(w, r, "", -1)
}

func (sm *SessionManager) setCookie(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	c := &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   maxAge,
		Secure:   sm.secure.Secure(r),
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	}
	cookie.Normalize(c)
	http.SetCookie(w, c)
}
