package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Format selects the output encoding.
type Format int

const (
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = iota
	// FormatText writes logfmt-style lines, easier to read in a terminal.
	FormatText
)

// SentryConfig enables forwarding of warnings and errors to Sentry.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

// Option configures New.
type Option func(*options)

type options struct {
	out        io.Writer
	level      slog.Level
	format     Format
	sentry     SentryConfig
	extractors []ContextExtractor
}

// WithOutput sets the destination. Default: stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithLevel sets the minimum level. Default: info.
func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat sets the encoding. Default: JSON.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithSentry forwards records to Sentry when the DSN is set.
func WithSentry(cfg SentryConfig) Option {
	return func(o *options) { o.sentry = cfg }
}

// WithExtractors adds context extractors, such as the request ID.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// New builds a logger. If Sentry initialization fails the logger falls back
// to the local output and reports the failure there.
func New(opts ...Option) *slog.Logger {
	o := &options{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}
	var local slog.Handler
	if o.format == FormatText {
		local = slog.NewTextHandler(o.out, hopts)
	} else {
		local = slog.NewJSONHandler(o.out, hopts)
	}

	if o.sentry.DSN == "" {
		return slog.New(WithContext(local, o.extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         o.sentry.DSN,
		Environment: o.sentry.Environment,
		Release:     o.sentry.Release,
		EnableLogs:  true,
	}); err != nil {
		log := slog.New(WithContext(local, o.extractors...))
		log.Error("failed to initialize sentry", slog.String("error", err.Error()))
		return log
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(WithContext(fanout{local, remote}, o.extractors...))
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// FlushSentry returns a shutdown hook that waits for buffered Sentry events.
// It is a no-op when Sentry was never initialized.
func FlushSentry(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if sentry.CurrentHub().Client() == nil {
			return nil
		}
		if deadline, ok := ctx.Deadline(); ok {
			timeout = min(timeout, time.Until(deadline))
		}
		sentry.Flush(timeout)
		return nil
	}
}
