package startup

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/health"
)

// Check is a named readiness check.
type Check struct {
	Name string
	Fn   health.CheckFunc
}

// Deps are the process-wide resources opened before services are declared.
type Deps struct {
	Logger       *slog.Logger
	HTTPClient   *sitekit.HTTPClient
	SessionStore sitekit.SessionStore
	Checks       []Check
}

// Services declares the process-wide capabilities of the app.
// Forwarded-header trust is the first pipeline stage, see Pipeline.
func Services(cfg config.Config, policy config.Policy, deps Deps) []sitekit.Option {
	opts := []sitekit.Option{
		sitekit.WithCookieOptions(
			cookie.WithSecret(cfg.Cookie.Secret),
			cookie.WithConsentCheck(cookie.ConsentNeverRequired),
			cookie.WithMinimumSameSite(http.SameSiteNoneMode),
			cookie.WithSecurePolicy(policy.CookieSecure),
		),
		sitekit.WithAuthCookie(cfg.Cookie.Name,
			sitekit.WithAuthCookieDomain(policy.CookieDomain),
			sitekit.WithAuthCookiePath("/"),
		),
		sitekit.WithRouting(Routing),
		sitekit.WithHTTPClient(deps.HTTPClient),
	}

	for _, a := range Aliases {
		opts = append(opts, sitekit.WithRouteAlias(a.Path, a.Target))
	}

	if deps.SessionStore != nil {
		opts = append(opts, sitekit.WithSession(deps.SessionStore,
			sitekit.WithSessionCookieName(cfg.Session.Name),
			sitekit.WithSessionIdleTimeout(cfg.Session.IdleTimeout),
			sitekit.WithSessionSecurePolicy(policy.CookieSecure),
			sitekit.WithSessionSameSite(http.SameSiteNoneMode),
			sitekit.WithSessionHTTPOnly(true),
		))
	}

	checks := make([]sitekit.HealthOption, 0, len(deps.Checks))
	for _, c := range deps.Checks {
		checks = append(checks, sitekit.WithReadinessCheck(c.Name, c.Fn))
	}
	opts = append(opts, sitekit.WithHealthChecks(checks...))

	if deps.Logger != nil {
		opts = append(opts, sitekit.WithCustomLogger(deps.Logger))
	}

	return opts
}
