package internal

import (
	"log/slog"

	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/health"
	"github.com/dmitrymomot/sitekit/pkg/httpclient"
	"github.com/dmitrymomot/sitekit/pkg/logger"
	"github.com/dmitrymomot/sitekit/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithPipeline sets the ordered request pipeline.
// Stages run before routing, first stage first.
func WithPipeline(p Pipeline) Option {
	return func(a *App) {
		a.pipeline = append(a.pipeline, p...)
	}
}

// WithMiddleware adds middleware that runs after the pipeline, right before routing.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithRouting sets the URL conventions shared by route patterns and request paths.
//
// Example:
//
//	sitekit.WithRouting(sitekit.RoutingConventions{
//	    LowercaseURLs:       true,
//	    AppendTrailingSlash: true,
//	})
func WithRouting(rc RoutingConventions) Option {
	return func(a *App) {
		a.routing = rc
	}
}

// WithRouteAlias serves path as if target was requested.
// Aliases are resolved after path normalization and before dispatch.
// The request URL stays untouched.
//
// Example:
//
//	sitekit.WithRouteAlias("/robots.txt", "/robotstxt")
func WithRouteAlias(path, target string) Option {
	return func(a *App) {
		if path == "" || target == "" {
			return
		}
		// Stored raw, normalized once all options are known.
		a.rawAliases = append(a.rawAliases, [2]string{path, target})
	}
}

// WithErrorHandler sets the handler for errors nobody else handled.
//
// Example:
//
//	sitekit.WithErrorHandler(func(c sitekit.Context, err error) error {
//	    return c.Render(sitekit.StatusOf(err), pages.ErrorView(err))
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
//
// Example:
//
//	sitekit.WithNotFoundHandler(func(c sitekit.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	sitekit.WithHealthChecks(
//	    sitekit.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	    sitekit.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(map[string]health.CheckFunc),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger builds a JSON logger with a component name and optional extractors.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	sitekit.New(
//	    sitekit.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.WithExtractors(extractors...)).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager and with it the cookie policy.
//
// Example:
//
//	sitekit.WithCookieOptions(
//	    cookie.WithConsentCheck(cookie.ConsentNeverRequired),
//	    cookie.WithMinimumSameSite(http.SameSiteNoneMode),
//	    cookie.WithSecret(secret),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithAuthCookie enables SignIn, SignOut and UserID on Context.
// The cookie is encrypted, so the cookie manager needs a secret.
//
// Example:
//
//	sitekit.WithAuthCookie(".sitekit.auth",
//	    sitekit.WithAuthCookieDomain("dev.example.com"),
//	)
func WithAuthCookie(name string, opts ...AuthCookieOption) Option {
	return func(a *App) {
		a.authCookie = NewAuthCookie(name, opts...)
	}
}

// WithSession enables server-side session management.
// Sessions are loaded lazily and saved automatically before the response is written.
//
// Example:
//
//	sitekit.WithSession(session.NewRedisStore(client, "sitekit:session"),
//	    sitekit.WithSessionIdleTimeout(30*time.Minute),
//	    sitekit.WithSessionSecurePolicy(cookie.SecureAlways),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithHTTPClient sets the outbound HTTP client shared by all handlers.
// Defaults to httpclient.New().
func WithHTTPClient(c *httpclient.Client) Option {
	return func(a *App) {
		if c != nil {
			a.httpClient = c
		}
	}
}
