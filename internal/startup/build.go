package startup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
	"github.com/dmitrymomot/sitekit/middlewares"
	"github.com/dmitrymomot/sitekit/pkg/db"
	"github.com/dmitrymomot/sitekit/pkg/httpclient"
	"github.com/dmitrymomot/sitekit/pkg/markdown"
	"github.com/dmitrymomot/sitekit/pkg/redis"
	"github.com/dmitrymomot/sitekit/pkg/session"
	"github.com/dmitrymomot/sitekit/pkg/telemetry"
	"github.com/dmitrymomot/sitekit/web"
)

const (
	sessionKeyPrefix     = "sitekit:session"
	sessionMigrations    = "sitekit_session_migrations"
	sessionSweepInterval = time.Minute
	releaseTimeout       = 5 * time.Second
)

// Hook runs at shutdown, after the server stopped accepting requests.
type Hook = func(context.Context) error

// Build opens the configured resources and assembles the app.
// The returned hooks release those resources and belong in the server's
// shutdown hooks. On error everything opened so far is already released.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *sitekit.App, hooks []Hook, err error) {
	defer func() {
		if err != nil {
			release(hooks, log)
			hooks = nil
		}
	}()

	policy := cfg.Policy()
	deps := Deps{Logger: log}

	clientOpts := []httpclient.Option{
		httpclient.WithUserAgent(cfg.ServiceName + "/" + cfg.Version),
		httpclient.WithRetry(2, 200*time.Millisecond),
	}
	if cfg.TracingEnabled {
		clientOpts = append(clientOpts, httpclient.WithTransport(telemetry.Transport(http.DefaultTransport)))
	}
	deps.HTTPClient = httpclient.New(clientOpts...)
	if cfg.UpstreamStatusURL != "" {
		deps.Checks = append(deps.Checks, Check{Name: "upstream", Fn: httpclient.Healthcheck(deps.HTTPClient, cfg.UpstreamStatusURL)})
	}

	if cfg.RedisURL != "" {
		client, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, hooks, err
		}
		hooks = append(hooks, redis.Shutdown(client))
		deps.Checks = append(deps.Checks, Check{Name: "redis", Fn: redis.Healthcheck(client)})

		if cfg.Session.Store == config.StoreRedis {
			deps.SessionStore = session.NewRedisStore(client, sessionKeyPrefix)
		}
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, hooks, err
		}
		hooks = append(hooks, db.Shutdown(pool))
		deps.Checks = append(deps.Checks, Check{Name: "postgres", Fn: db.Healthcheck(pool)})

		if cfg.Session.Store == config.StorePostgres {
			if err := db.Migrate(ctx, pool, session.Migrations(), sessionMigrations, log); err != nil {
				return nil, hooks, err
			}
			deps.SessionStore = session.NewPostgresStore(pool)
		}
	}

	if deps.SessionStore == nil {
		store := session.NewMemoryStore()
		hooks = append(hooks, sweep(store, sessionSweepInterval))
		deps.SessionStore = store
	}

	docs := markdown.NewRenderer(web.Content())
	hooks = append(hooks, func(context.Context) error { return docs.Close() })

	static, err := staticFS(cfg)
	if err != nil {
		return nil, hooks, err
	}

	opts := Services(cfg, policy, deps)
	opts = append(opts, Routes(cfg, docs)...)
	opts = append(opts,
		sitekit.WithPipeline(Pipeline(cfg, policy, static)),
		sitekit.WithMiddleware(middlewares.RequestID()),
	)

	app := sitekit.New(opts...)
	if err := app.Err(); err != nil {
		return nil, hooks, err
	}

	return app, hooks, nil
}

// staticFS returns the embedded assets unless a directory overrides them.
func staticFS(cfg config.Config) (fs.FS, error) {
	if cfg.StaticDir == "" {
		return web.Static(), nil
	}
	info, err := os.Stat(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s: not a directory", cfg.StaticDir)
	}
	return os.DirFS(cfg.StaticDir), nil
}

// sweep removes expired sessions from store until the returned hook runs.
func sweep(store *session.MemoryStore, every time.Duration) Hook {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				store.Sweep()
			case <-stop:
				return
			}
		}
	}()

	return func(ctx context.Context) error {
		close(stop)
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func release(hooks []Hook, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil && log != nil {
		log.Error("release resources", "error", err)
	}
}
