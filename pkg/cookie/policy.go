package cookie

import (
	"net/http"

	"github.com/dmitrymomot/sitekit/pkg/forwarded"
)

// SecurePolicy decides whether a cookie carries the Secure flag.
type SecurePolicy int

const (
	// SecureSameAsRequest marks the cookie Secure only when the request came over HTTPS.
	SecureSameAsRequest SecurePolicy = iota
	// SecureAlways always marks the cookie Secure.
	SecureAlways
	// SecureNever never marks the cookie Secure.
	SecureNever
)

// Secure resolves the policy for a request.
func (p SecurePolicy) Secure(r *http.Request) bool {
	switch p {
	case SecureAlways:
		return true
	case SecureNever:
		return false
	default:
		return r != nil && forwarded.IsHTTPS(r)
	}
}

func (p SecurePolicy) String() string {
	switch p {
	case SecureAlways:
		return "always"
	case SecureNever:
		return "never"
	default:
		return "same-as-request"
	}
}

// Normalize makes a cookie acceptable to browsers that reject
// SameSite=None without Secure: such cookies fall back to Lax.
func Normalize(c *http.Cookie) {
	if c.SameSite == http.SameSiteNoneMode && !c.Secure {
		c.SameSite = http.SameSiteLaxMode
	}
}

// atLeast returns the stricter of two SameSite modes.
// Ordering: None < Lax < Strict. An unset mode counts as None.
func atLeast(current, minimum http.SameSite) http.SameSite {
	if sameSiteRank(current) >= sameSiteRank(minimum) {
		return current
	}
	return minimum
}

func sameSiteRank(ss http.SameSite) int {
	switch ss {
	case http.SameSiteStrictMode:
		return 3
	case http.SameSiteLaxMode:
		return 2
	default:
		return 1
	}
}
