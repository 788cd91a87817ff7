package session

import "errors"

var (
	// ErrNotConfigured is returned when session helpers run without a session manager.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session passed its idle timeout.
	ErrExpired = errors.New("session: expired")

	// ErrTypeMismatch is returned by Value when a stored value cannot be converted.
	ErrTypeMismatch = errors.New("session: type mismatch")
)
