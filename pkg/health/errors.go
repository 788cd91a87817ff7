package health

import "errors"

var (
	// ErrCheckTimeout is reported for a check that did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrDuplicateCheck is returned by Add for a name that is already registered.
	ErrDuplicateCheck = errors.New("health: duplicate check name")
)
