package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGELFHandler_Message(t *testing.T) {
	gw := &fakeGELF{}
	logger := slog.New(NewGELFHandler(gw, slog.LevelDebug))

	logger.Error("first line\nsecond line", "line", 12, slog.Group("entity", slog.String("id", "A1")))

	require.Len(t, gw.messages, 1)
	m := gw.messages[0]
	assert.Equal(t, "1.1", m.Version)
	assert.Equal(t, "first line", m.Short)
	assert.Equal(t, "second line", m.Full)
	assert.Equal(t, int32(3), m.Level)
	assert.Equal(t, ServiceName, m.Facility)
	assert.NotZero(t, m.TimeUnix)
	assert.EqualValues(t, 12, m.Extra["line"])
	assert.Equal(t, "A1", m.Extra["entity.id"])
}

func TestGELFHandler_Level(t *testing.T) {
	gw := &fakeGELF{}
	h := NewGELFHandler(gw, slog.LevelWarn)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))

	slog.New(h).Info("dropped")
	assert.Empty(t, gw.messages)
}

func TestGELFHandler_WithAttrsAndGroup(t *testing.T) {
	gw := &fakeGELF{}
	var h slog.Handler = NewGELFHandler(gw, nil)
	h = h.WithAttrs([]slog.Attr{slog.String("recording", "Red Flag")})
	h = h.WithGroup("export")

	slog.New(h).Info("row written", "rows", 5)

	require.Len(t, gw.messages, 1)
	assert.Equal(t, "Red Flag", gw.messages[0].Extra["recording"])
	assert.EqualValues(t, 5, gw.messages[0].Extra["export.rows"])
}

func TestGELFHandler_WriteError(t *testing.T) {
	gw := &fakeGELF{err: errors.New("udp down")}
	h := NewGELFHandler(gw, nil)

	var r slog.Record
	r.Level = slog.LevelInfo
	r.Message = "lost"
	assert.EqualError(t, h.Handle(context.Background(), r), "udp down")
}

func TestSyslogLevel(t *testing.T) {
	assert.Equal(t, int32(7), syslogLevel(slog.LevelDebug))
	assert.Equal(t, int32(6), syslogLevel(slog.LevelInfo))
	assert.Equal(t, int32(4), syslogLevel(slog.LevelWarn))
	assert.Equal(t, int32(3), syslogLevel(slog.LevelError))
}
