package internal

import (
	"strconv"

	"github.com/dmitrymomot/sitekit/pkg/session"
)

// Scalar is the set of types typed parameter helpers convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the request context value for key as T, or the zero value.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param returns a typed URL parameter. Unparsable values yield the zero value.
func Param[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

// Query returns a typed query parameter. Unparsable values yield the zero value.
func Query[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault returns a typed query parameter, or def if it is empty or unparsable.
func QueryDefault[T Scalar](c Context, name string, def T) T {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	if v, ok := parseScalar[T](raw); ok {
		return v
	}
	return def
}

// SessionValue returns a typed value from the current session.
// Returns session.ErrNotFound if the key is missing.
func SessionValue[T any](c Context, key string) (T, error) {
	var zero T
	sess, err := c.Session()
	if err != nil {
		return zero, err
	}
	return session.Value[T](sess, key)
}

func parseScalar[T Scalar](raw string) (T, bool) {
	var out T
	var (
		v   any
		err error
	)
	switch any(out).(type) {
	case string:
		v = raw
	case int:
		v, err = strconv.Atoi(raw)
	case int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		v, err = strconv.ParseFloat(raw, 64)
	case bool:
		v, err = strconv.ParseBool(raw)
	default:
		return out, false
	}
	if err != nil {
		return out, false
	}
	return v.(T), true
}
