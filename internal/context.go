package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/httpclient"
	"github.com/dmitrymomot/sitekit/pkg/session"
)

// ErrAuthNotConfigured is returned by SignIn when WithAuthCookie was not used.
var ErrAuthNotConfigured = errors.New("auth cookie not configured")

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	// Values come from the normalized path, so they are lowercase
	// when lowercase routing is enabled.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// HTML writes a trusted HTML string with the given status code.
	HTML(code int, html string) error

	// Render renders a component with the given status code.
	// Compatible with templ.Component.
	Render(code int, component Component) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// Error creates and returns an HTTPError without writing a response.
	// Return it from the handler to trigger error handling.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written returns true if a response has already been written.
	Written() bool

	// ResponseWriter returns the wrapped response writer.
	ResponseWriter() *ResponseWriter

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context.
	Get(key any) any

	// HTTPClient returns the process-wide outbound HTTP client.
	HTTPClient() *httpclient.Client

	// Cookies returns the cookie manager carrying the cookie policy.
	Cookies() *cookie.Manager

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	// Returns cookie.ErrConsentRequired if consent is required and missing.
	SetCookie(name, value string, maxAge int) error

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// CookieSigned returns a signed cookie value.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a signed cookie.
	SetCookieSigned(name, value string, maxAge int) error

	// CookieEncrypted returns an encrypted cookie value.
	CookieEncrypted(name string) (string, error)

	// SetCookieEncrypted sets an encrypted cookie.
	SetCookieEncrypted(name, value string, maxAge int) error

	// Flash reads and deletes a flash message.
	Flash(key string, dest any) error

	// SetFlash sets a flash message. Flash cookies are essential.
	SetFlash(key string, value any) error

	// UserID returns the signed-in user's ID from the auth cookie.
	// Returns empty string if nobody is signed in.
	UserID() string

	// IsAuthenticated returns true if a user is signed in.
	IsAuthenticated() bool

	// SignIn writes the auth cookie for userID. With sessions enabled the
	// session is bound to the user and gets a new token.
	// Returns ErrAuthNotConfigured if WithAuthCookie was not used.
	SignIn(userID string) error

	// SignOut removes the auth cookie and destroys the session, if any.
	SignOut() error

	// Session returns the current session, creating one if needed.
	// Returns session.ErrNotConfigured if WithSession was not used.
	Session() (*session.Session, error)

	// SessionValue retrieves a value from the session.
	SessionValue(key string) (any, error)

	// SetSessionValue stores a value in the session.
	SetSessionValue(key string, val any) error

	// DeleteSessionValue removes a value from the session.
	DeleteSessionValue(key string) error

	// DestroySession removes the session and clears its cookie.
	DestroySession() error
}

// requestState is shared by every Context created for one request,
// so a session loaded by a middleware is visible to the handler.
type requestState struct {
	session        *session.Session
	userID         string
	sessionLoaded  bool
	userLoaded     bool
	hookRegistered bool
}

type requestStateKey struct{}

// requestContext implements the Context interface.
type requestContext struct {
	response http.ResponseWriter
	request  *http.Request
	rw       *ResponseWriter
	app      *App
	state    *requestState
}

// newContext creates a context for the request. Contexts of the same
// request share the response writer and the request state.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw := NewResponseWriter(w)

	state, ok := r.Context().Value(requestStateKey{}).(*requestState)
	if !ok {
		state = &requestState{}
		r = r.WithContext(context.WithValue(r.Context(), requestStateKey{}, state))
	}

	return &requestContext{
		request:  r,
		response: rw,
		rw:       rw,
		app:      app,
		state:    state,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) HTML(code int, html string) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, html)
	return err
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.rw.Written()
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.rw
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) HTTPClient() *httpclient.Client {
	return c.app.httpClient
}

func (c *requestContext) Cookies() *cookie.Manager {
	return c.app.cookieManager
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.app.cookieManager.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) error {
	return c.app.cookieManager.Set(c.response, c.request, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.app.cookieManager.Delete(c.response, c.request, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.app.cookieManager.GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.app.cookieManager.SetSigned(c.response, c.request, name, value, maxAge)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.app.cookieManager.GetEncrypted(c.request, name)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge int) error {
	return c.app.cookieManager.SetEncrypted(c.response, c.request, name, value, maxAge)
}

func (c *requestContext) Flash(key string, dest any) error {
	return c.app.cookieManager.Flash(c.response, c.request, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.app.cookieManager.SetFlash(c.response, c.request, key, value)
}

func (c *requestContext) UserID() string {
	if c.state.userLoaded || c.app.authCookie == nil {
		return c.state.userID
	}
	c.state.userLoaded = true

	uid, err := c.app.authCookie.userID(c.app.cookieManager, c.request)
	if err != nil {
		c.LogWarn("failed to read auth cookie", slog.Any("error", err))
		return ""
	}
	c.state.userID = uid
	return uid
}

func (c *requestContext) IsAuthenticated() bool {
	return c.UserID() != ""
}

func (c *requestContext) SignIn(userID string) error {
	if c.app.authCookie == nil {
		return ErrAuthNotConfigured
	}
	if err := c.app.authCookie.signIn(c.app.cookieManager, c.response, c.request, userID); err != nil {
		return err
	}
	c.state.userID, c.state.userLoaded = userID, true

	if c.app.sessionManager == nil {
		return nil
	}
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.SetUser(userID)
	if err := c.app.sessionManager.Rotate(c.Context(), sess); err != nil {
		return err
	}
	c.app.sessionManager.Save(c.response, c.request, sess)
	return nil
}

func (c *requestContext) SignOut() error {
	if c.app.authCookie != nil {
		c.app.authCookie.signOut(c.app.cookieManager, c.response, c.request)
	}
	c.state.userID, c.state.userLoaded = "", true

	if c.app.sessionManager == nil {
		return nil
	}
	return c.DestroySession()
}

// registerSessionHook persists a dirty session right before the response goes out.
func (c *requestContext) registerSessionHook() {
	if c.state.hookRegistered {
		return
	}
	c.state.hookRegistered = true

	ctx := c.request.Context()
	c.rw.OnBeforeWrite(func() {
		sess := c.state.session
		if sess == nil || !sess.IsDirty() {
			return
		}
		if err := c.app.sessionManager.Store().Update(ctx, sess); err != nil {
			c.app.logger.ErrorContext(ctx, "failed to save session", slog.Any("error", err))
			return
		}
		sess.ClearDirty()
	})
}

func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessionManager
	if sm == nil {
		return nil, session.ErrNotConfigured
	}
	c.registerSessionHook()

	if c.state.session != nil {
		return c.state.session, nil
	}

	if !c.state.sessionLoaded {
		sess, err := sm.Load(c.Context(), c.request)
		if err != nil {
			return nil, err
		}
		c.state.sessionLoaded = true
		if sess != nil {
			c.state.session = sess
			return sess, nil
		}
	}

	sess, err := sm.Create(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	c.state.session = sess
	sm.Save(c.response, c.request, sess)
	return sess, nil
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	val, _ := sess.GetValue(key)
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) DestroySession() error {
	sm := c.app.sessionManager
	if sm == nil {
		return session.ErrNotConfigured
	}

	if !c.state.sessionLoaded && c.state.session == nil {
		sess, err := sm.Load(c.Context(), c.request)
		if err != nil {
			return err
		}
		c.state.session = sess
	}

	if c.state.session != nil {
		if err := sm.Store().Delete(c.Context(), c.state.session.ID); err != nil {
			return err
		}
	}

	sm.Clear(c.response, c.request)
	c.state.session = nil
	c.state.sessionLoaded = true
	return nil
}

// WithRequest returns a Context for r that shares the response and the
// request state of c. Middlewares use it to continue with a rewritten request.
func WithRequest(c Context, r *http.Request) Context {
	if rc, ok := c.(*requestContext); ok {
		cp := *rc
		cp.request = r
		return &cp
	}
	return &requestOverride{baseContext: c, request: r}
}

// baseContext lets requestOverride embed Context and still define Context().
type baseContext = Context

// requestOverride swaps the request of a foreign Context implementation.
type requestOverride struct {
	baseContext
	request *http.Request
}

func (o *requestOverride) Request() *http.Request {
	return o.request
}

func (o *requestOverride) Context() context.Context {
	return o.request.Context()
}

func (o *requestOverride) Value(key any) any {
	return o.request.Context().Value(key)
}

func (o *requestOverride) Get(key any) any {
	return o.request.Context().Value(key)
}

func (o *requestOverride) Header(name string) string {
	return o.request.Header.Get(name)
}

func (o *requestOverride) Query(name string) string {
	return o.request.URL.Query().Get(name)
}
