package middlewares

import "github.com/dmitrymomot/sitekit/internal"

// FrameOptions returns middleware that sets X-Frame-Options on every response
// produced downstream. An empty value means SAMEORIGIN.
func FrameOptions(value string) internal.Middleware {
	if value == "" {
		value = "SAMEORIGIN"
	}
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.SetHeader("X-Frame-Options", value)
			return next(c)
		}
	}
}
