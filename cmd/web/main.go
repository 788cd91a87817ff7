// Command web serves the site.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrymomot/sitekit"
	"github.com/dmitrymomot/sitekit/internal/config"
	"github.com/dmitrymomot/sitekit/internal/startup"
	"github.com/dmitrymomot/sitekit/middlewares"
	"github.com/dmitrymomot/sitekit/pkg/logger"
	"github.com/dmitrymomot/sitekit/pkg/telemetry"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New().Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithFormat(logFormat(cfg.Environment)),
		logger.WithSentry(logger.SentryConfig{
			DSN:         cfg.SentryDSN,
			Environment: string(cfg.Environment),
			Release:     cfg.Version,
		}),
		logger.WithExtractors(middlewares.RequestIDExtractor()),
	).With("service", cfg.ServiceName)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		_ = logger.FlushSentry(sentryFlushTimeout)(context.Background())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []sitekit.RunOption{
		sitekit.WithContext(ctx),
		sitekit.Logger(log),
		sitekit.ShutdownTimeout(cfg.ShutdownTimeout),
	}

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer(telemetry.Config{
			ServiceName: cfg.ServiceName,
			Version:     cfg.Version,
			Environment: string(cfg.Environment),
		}, log)
		if err != nil {
			return err
		}
		opts = append(opts,
			sitekit.WrapHandler(func(h http.Handler) http.Handler {
				return telemetry.Handler(h, cfg.ServiceName)
			}),
			sitekit.ShutdownHook(shutdown),
		)
	}

	app, hooks, err := startup.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	for _, h := range hooks {
		opts = append(opts, sitekit.ShutdownHook(h))
	}
	opts = append(opts, sitekit.ShutdownHook(logger.FlushSentry(sentryFlushTimeout)))

	log.Info("starting",
		"environment", cfg.Environment,
		"address", cfg.Address,
		"pipeline", app.Pipeline().Names(),
	)

	return app.Run(cfg.Address, opts...)
}

func logFormat(env config.Environment) logger.Format {
	if env.IsDevelopment() {
		return logger.FormatText
	}
	return logger.FormatJSON
}
