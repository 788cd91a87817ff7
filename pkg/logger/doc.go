// Package logger builds slog loggers with context extractors and optional
// Sentry forwarding.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatText),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithSentry(logger.SentryConfig{DSN: dsn, Environment: "production"}),
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
//
// Extractors run for every record and add attributes found in the record's
// context, so a handler that logs with InfoContext gets the request ID
// without passing it around.
//
// With a Sentry DSN, warnings and errors are also sent to Sentry; errors
// create issues. Register [FlushSentry] as a shutdown hook so buffered events
// are delivered before exit.
package logger
