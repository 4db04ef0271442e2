package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName identifies this program in OTel and GELF output.
const ServiceName = "acmi"

// Options selects the sinks a SlogManager writes to.
type Options struct {
	Level string

	// File receives text output. When nil, text output goes to Console.
	File io.Writer
	// Console defaults to os.Stderr so command output on stdout stays clean.
	Console io.Writer

	// Provider enables the OTel log bridge.
	Provider *sdklog.LoggerProvider
	// Graylog enables a GELF sink.
	Graylog MessageWriter
}

// SlogManager manages slog-based logging with optional OTel and Graylog sinks.
type SlogManager struct {
	logger      *slog.Logger
	level       *slog.LevelVar
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup (re)builds the logger from opts. Every record passes through a
// ContextHandler so attributes attached with WithAttrs reach all sinks.
func (m *SlogManager) Setup(opts Options) {
	m.level = new(slog.LevelVar)
	m.level.Set(parseLevel(opts.Level))
	m.logProvider = opts.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: m.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
	} else {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		handlers = append(handlers, slog.NewTextHandler(console, handlerOpts))
	}

	if opts.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(opts.Provider)))
	}

	if opts.Graylog != nil {
		handlers = append(handlers, NewGELFHandler(opts.Graylog, m.level))
	}

	m.logger = slog.New(NewContextHandler(NewMultiHandler(handlers...)))
	m.logger.Debug("Logging initialized", "level", opts.Level)
}

// SetLevel changes the level of an already configured logger.
func (m *SlogManager) SetLevel(level string) {
	if m.level != nil {
		m.level.Set(parseLevel(level))
	}
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
