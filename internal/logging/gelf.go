package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// MessageWriter sends a GELF message. *gelf.Writer satisfies it.
type MessageWriter interface {
	WriteMessage(m *gelf.Message) error
}

// NewGraylogWriter dials a Graylog UDP input.
func NewGraylogWriter(address string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("error creating graylog writer for %s: %w", address, err)
	}
	w.Facility = ServiceName
	return w, nil
}

// GELFHandler is a slog.Handler that forwards records to Graylog. Attributes
// become GELF additional fields (prefixed with "_" on the wire by go-gelf).
type GELFHandler struct {
	w      MessageWriter
	level  slog.Leveler
	host   string
	attrs  []slog.Attr
	prefix string
}

// NewGELFHandler creates a GELF handler at the given minimum level.
func NewGELFHandler(w MessageWriter, level slog.Leveler) *GELFHandler {
	host, err := os.Hostname()
	if err != nil {
		host = ServiceName
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &GELFHandler{w: w, level: level, host: host}
}

// Enabled reports whether level reaches the configured minimum.
func (h *GELFHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle converts the record to a GELF message and sends it.
func (h *GELFHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addExtra(extra, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addExtra(extra, h.prefix, a)
		return true
	})

	short, full, _ := strings.Cut(r.Message, "\n")
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	return h.w.WriteMessage(&gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    short,
		Full:     full,
		TimeUnix: float64(t.UnixNano()) / float64(time.Second),
		Level:    syslogLevel(r.Level),
		Facility: ServiceName,
		Extra:    extra,
	})
}

// WithAttrs returns a handler that always sends attrs.
func (h *GELFHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &next
}

// WithGroup flattens groups into dotted field names.
func (h *GELFHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func addExtra(extra map[string]interface{}, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addExtra(extra, prefix+a.Key+".", ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	extra[prefix+a.Key] = a.Value.Any()
}

// syslogLevel maps slog levels to the syslog severities GELF uses.
func syslogLevel(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return 3
	case l >= slog.LevelWarn:
		return 4
	case l >= slog.LevelInfo:
		return 6
	default:
		return 7
	}
}
