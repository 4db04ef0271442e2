package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewZerolog builds the zerolog logger used by the InfluxDB writer.
// A nil writer means stderr.
func NewZerolog(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(zerologLevel(level)).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

func zerologLevel(level string) zerolog.Level {
	switch parseLevel(level) {
	case slog.LevelDebug:
		return zerolog.DebugLevel
	case slog.LevelWarn:
		return zerolog.WarnLevel
	case slog.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
