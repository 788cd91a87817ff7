package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// RunOption configures the server runtime.
type RunOption func(*runConfig)

// runConfig holds runtime configuration for the server.
type runConfig struct {
	logger          *slog.Logger
	baseCtx         context.Context
	listener        net.Listener
	shutdownTimeout time.Duration
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	wrappers        []func(http.Handler) http.Handler
}

// buildRunConfig creates a runConfig from the provided options.
func buildRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// wrap applies the handler wrappers. The first wrapper is the outermost.
func (c *runConfig) wrap(h http.Handler) http.Handler {
	for i := len(c.wrappers) - 1; i >= 0; i-- {
		h = c.wrappers[i](h)
	}
	return h
}

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook registers a function to run before the server accepts requests.
// A failing hook aborts the start.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
//
// Example:
//
//	sitekit.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WrapHandler wraps the whole app, outside of the pipeline.
//
// Example:
//
//	sitekit.WrapHandler(func(h http.Handler) http.Handler {
//	    return telemetry.Handler(h, "sitekit")
//	})
func WrapHandler(fn func(http.Handler) http.Handler) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.wrappers = append(c.wrappers, fn)
		}
	}
}

// WithContext sets a custom base context for signal handling.
// Cancelling it shuts the server down. Defaults to context.Background().
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// WithListener serves on an existing listener instead of the address.
func WithListener(ln net.Listener) RunOption {
	return func(c *runConfig) {
		if ln != nil {
			c.listener = ln
		}
	}
}
