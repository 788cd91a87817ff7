package sitekit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/health"
	"github.com/dmitrymomot/sitekit/pkg/httpclient"
	"github.com/dmitrymomot/sitekit/pkg/logger"
	"github.com/dmitrymomot/sitekit/pkg/session"
)

// Type aliases - public API
type (
	// App owns the request pipeline, the router and the server lifecycle.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// Stage is one named step of the request pipeline.
	Stage = internal.Stage

	// Pipeline is the ordered list of stages that run before routing.
	Pipeline = internal.Pipeline

	// RoutingConventions controls URL normalization.
	RoutingConventions = internal.RoutingConventions

	// ErrorHandler handles errors nobody else handled.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// AuthCookieOption configures the auth cookie.
	AuthCookieOption = internal.AuthCookieOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter with write hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is an error with an HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// HTTPClient is the shared outbound HTTP client.
	HTTPClient = httpclient.Client
)

// New creates a new App with the given options.
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// When returns the stages only if cond holds.
func When(cond bool, stages ...Stage) []Stage {
	return internal.When(cond, stages...)
}

// Chain composes middlewares around h. The first middleware is the outermost.
func Chain(h HandlerFunc, mw ...Middleware) HandlerFunc {
	return internal.Chain(h, mw...)
}

// App options

// WithPipeline sets the stages that run before routing, in order.
func WithPipeline(p Pipeline) Option {
	return internal.WithPipeline(p)
}

// WithMiddleware adds global middlewares that run after the pipeline.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRouting sets the URL normalization conventions.
func WithRouting(rc RoutingConventions) Option {
	return internal.WithRouting(rc)
}

// WithRouteAlias dispatches requests for path to the route of target.
func WithRouteAlias(path, target string) Option {
	return internal.WithRouteAlias(path, target)
}

// WithErrorHandler sets the handler for errors nobody else handled.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler for unmatched routes.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables liveness and readiness endpoints.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a JSON logger tagged with component.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a preconfigured logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithAuthCookie enables SignIn, SignOut and UserID on Context.
func WithAuthCookie(name string, opts ...AuthCookieOption) Option {
	return internal.WithAuthCookie(name, opts...)
}

// WithSession enables server-side sessions.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithHTTPClient sets the shared outbound HTTP client.
func WithHTTPClient(c *HTTPClient) Option {
	return internal.WithHTTPClient(c)
}

// Health options

// WithLivenessPath sets the liveness endpoint path. Default: /health/live.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path. Default: /health/ready.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessTimeout bounds the whole readiness run.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return internal.WithReadinessTimeout(d)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Auth cookie options

// WithAuthCookieDomain sets the auth cookie domain.
func WithAuthCookieDomain(domain string) AuthCookieOption {
	return internal.WithAuthCookieDomain(domain)
}

// WithAuthCookiePath sets the auth cookie path.
func WithAuthCookiePath(path string) AuthCookieOption {
	return internal.WithAuthCookiePath(path)
}

// WithAuthCookieMaxAge makes the auth cookie persistent.
func WithAuthCookieMaxAge(seconds int) AuthCookieOption {
	return internal.WithAuthCookieMaxAge(seconds)
}

// Session options

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionIdleTimeout sets the sliding session expiration.
func WithSessionIdleTimeout(d time.Duration) SessionOption {
	return internal.WithSessionIdleTimeout(d)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionPath sets the session cookie path.
func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

// WithSessionSecurePolicy decides the Secure flag of the session cookie.
func WithSessionSecurePolicy(p cookie.SecurePolicy) SessionOption {
	return internal.WithSessionSecurePolicy(p)
}

// WithSessionSameSite sets the SameSite mode of the session cookie.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return internal.WithSessionHTTPOnly(httpOnly)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown timeout.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server starts listening.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server stopped.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WrapHandler wraps the app's http.Handler, e.g. for tracing.
func WrapHandler(fn func(http.Handler) http.Handler) RunOption {
	return internal.WrapHandler(fn)
}

// WithContext sets a base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// WithListener serves on ln instead of listening on the address.
func WithListener(ln net.Listener) RunOption {
	return internal.WithListener(ln)
}

// Helpers

// ContextValue returns the request context value for key as T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed URL parameter.
func Param[T internal.Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a typed query parameter.
func Query[T internal.Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a typed query parameter or def.
func QueryDefault[T internal.Scalar](c Context, name string, def T) T {
	return internal.QueryDefault(c, name, def)
}

// SessionValue returns a typed value from the current session.
func SessionValue[T any](c Context, key string) (T, error) {
	return internal.SessionValue[T](c, key)
}

// WithRequest continues with a rewritten request.
func WithRequest(c Context, r *http.Request) Context {
	return internal.WithRequest(c, r)
}

// RoutePath returns the normalized path the router matched against.
func RoutePath(r *http.Request) string {
	return internal.RoutePath(r)
}

// Errors

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	return internal.StatusOf(err)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

var (
	ErrBadRequest         = internal.ErrBadRequest
	ErrUnauthorized       = internal.ErrUnauthorized
	ErrForbidden          = internal.ErrForbidden
	ErrNotFound           = internal.ErrNotFound
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable

	ErrAuthNotConfigured = internal.ErrAuthNotConfigured

	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieDecrypt  = cookie.ErrDecrypt

	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
)
