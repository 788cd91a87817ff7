package internal

import (
	"context"
	"errors"
	"net/http"
)

// HTTPError is an error with a status code and a user-facing message.
// Error pages render it; Err is for logs only.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Title is an optional title (defaults to the status text).
	Title string

	// RequestID is the request tracking ID.
	RequestID string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// StatusText returns Title or the standard text of the status code.
func (e *HTTPError) StatusText() string {
	if e.Title != "" {
		return e.Title
	}
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// AsHTTPError extracts an HTTPError anywhere in the chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// StatusOf returns the status code carried by err, or 500.
func StatusOf(err error) int {
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Code > 0 {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// errorSlot carries an error from a chi handler back to the framework
// middleware that dispatched it.
type errorSlot struct {
	err error
}

type errorSlotKey struct{}

// propagate hands err to the closest enclosing framework middleware.
// Without one, the app's error handler takes it.
func (a *App) propagate(c Context, err error) {
	if slot, ok := c.Value(errorSlotKey{}).(*errorSlot); ok {
		if slot.err == nil {
			slot.err = err
		}
		return
	}
	a.handleError(c, err)
}

// withErrorSlot returns a request context with a fresh slot.
func withErrorSlot(ctx context.Context) (context.Context, *errorSlot) {
	slot := &errorSlot{}
	return context.WithValue(ctx, errorSlotKey{}, slot), slot
}
