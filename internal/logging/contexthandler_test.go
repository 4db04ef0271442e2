package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextHandler_InjectsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithAttrs(context.Background(), slog.String("source", "a.acmi"))
	ctx = WithAttrs(ctx, slog.Int("attempt", 2))
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), "source=a.acmi")
	assert.Contains(t, buf.String(), "attempt=2")
}

func TestContextHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestWithAttrs_DoesNotLeakToParent(t *testing.T) {
	parent := WithAttrs(context.Background(), slog.String("a", "1"))
	_ = WithAttrs(parent, slog.String("b", "2"))
	assert.Len(t, attrsFrom(parent), 1)
}

func TestContextHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil))

	assert.Equal(t, h, h.WithGroup(""))
	slog.New(h.WithGroup("g").WithAttrs([]slog.Attr{slog.String("k", "v")})).Info("x")
	assert.Contains(t, buf.String(), "g.k=v")
}
