package config

import (
	"time"

	"github.com/dmitrymomot/sitekit/pkg/cookie"
)

// ErrorPage selects how unhandled errors are shown.
type ErrorPage int

const (
	// DetailedErrors renders the developer exception page.
	DetailedErrors ErrorPage = iota
	// GenericErrorPage re-executes the request on the error page.
	GenericErrorPage
)

// Policy holds every decision that depends on the environment.
// It is resolved once from Config.
type Policy struct {
	Environment       Environment
	StaticCacheMaxAge time.Duration
	CookieDomain      string
	CookieSecure      cookie.SecurePolicy
	ErrorPage         ErrorPage
	EnforceHTTPS      bool
}

// Policy resolves the environment-dependent policy.
func (c Config) Policy() Policy {
	if c.Environment.IsDevelopment() {
		return Policy{
			Environment:       Development,
			StaticCacheMaxAge: time.Minute,
			CookieDomain:      c.Cookie.DevDomain,
			CookieSecure:      cookie.SecureSameAsRequest,
			ErrorPage:         DetailedErrors,
		}
	}
	return Policy{
		Environment:       Production,
		StaticCacheMaxAge: 24 * time.Hour,
		CookieDomain:      c.Cookie.ProdDomain,
		CookieSecure:      cookie.SecureAlways,
		ErrorPage:         GenericErrorPage,
		EnforceHTTPS:      true,
	}
}
