package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sitekit/pkg/cookie"
	"github.com/dmitrymomot/sitekit/pkg/httpclient"
	"github.com/dmitrymomot/sitekit/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
// A request runs through the pipeline stages in order, then through routing.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router          chi.Router
	handler         HandlerFunc
	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	healthConfig    *healthConfig
	logger          *slog.Logger
	cookieManager   *cookie.Manager
	sessionManager  *SessionManager
	authCookie      *AuthCookie
	httpClient      *httpclient.Client
	routing         RoutingConventions
	aliases         map[string]string
	rawAliases      [][2]string
	pipeline        Pipeline
	middlewares     []Middleware
	handlers        []Handler
	setupErr        error
}

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := sitekit.New(
//	    sitekit.WithPipeline(startup.Pipeline(policy, cfg, assets)),
//	    sitekit.WithRouting(sitekit.RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}),
//	    sitekit.WithHandlers(pages.New(docs), controllers.NewStatus(cfg)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(), // Default: noop logger (before options)
		cookieManager: cookie.New(),     // Default: cookie manager (no secret)
		aliases:       make(map[string]string),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.httpClient == nil {
		a.httpClient = httpclient.New()
	}
	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
	}
	for _, alias := range a.rawAliases {
		a.aliases[a.routing.Path(alias[0])] = a.routing.Path(alias[1])
	}

	a.setupRoutes()
	a.handler = a.pipeline.Then(Chain(a.route, a.middlewares...))
	return a
}

// Err returns the first error found while assembling the app, if any.
func (a *App) Err() error {
	return a.setupErr
}

// Router returns the underlying chi.Router.
// Requests served by it directly skip the pipeline and path normalization.
func (a *App) Router() chi.Router {
	return a.router
}

// Pipeline returns the configured stages, routing excluded.
func (a *App) Pipeline() Pipeline {
	return a.pipeline
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP runs the request through the pipeline and routing.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, r, a)
	if err := a.handler(c); err != nil {
		a.handleError(c, err)
	}
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	app := sitekit.New(sitekit.WithHandlers(pages.New(docs)))
//	err := app.Run(":8080", sitekit.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	if a.setupErr != nil {
		return a.setupErr
	}
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         cfg.wrap(a),
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
		listener:        cfg.listener,
	})
}

// setupRoutes registers the not found handler, health endpoints and handlers.
func (a *App) setupRoutes() {
	notFound := a.notFoundHandler
	if notFound == nil {
		notFound = func(c Context) error {
			return ErrNotFound(http.StatusText(http.StatusNotFound))
		}
	}
	a.router.NotFound(a.wrapHandler(notFound))
	a.router.MethodNotAllowed(a.wrapHandler(func(c Context) error {
		return NewHTTPError(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}))

	r := &routerAdapter{router: a.router, app: a}

	if a.healthConfig != nil {
		h, err := newHealthRoutes(a.healthConfig, a.logger)
		if err != nil {
			a.setupErr = err
		} else {
			h.Routes(r)
		}
	}

	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc.
// Errors travel back to the framework layer that dispatched the request.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.propagate(c, err)
		}
	}
}

// handleError handles errors nobody else handled.
func (a *App) handleError(c Context, err error) {
	// Check if response has already been written
	if c.Written() {
		a.logger.ErrorContext(c, "error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr == nil || c.Written() {
			return
		}
	}
	code := StatusOf(err)
	http.Error(c.Response(), http.StatusText(code), code)
}
