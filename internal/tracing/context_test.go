package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSessionKey(ctx))
	assert.Empty(t, GetToolName(ctx))

	ctx = WithTraceID(ctx, "trace-1")
	ctx = WithSessionKey(ctx, "session-1")
	ctx = WithToolName(ctx, "list_courses")

	assert.Equal(t, "trace-1", GetTraceID(ctx))
	assert.Equal(t, "session-1", GetSessionKey(ctx))
	assert.Equal(t, "list_courses", GetToolName(ctx))
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background())
	assert.NotEmpty(t, GetTraceID(ctx))

	other := NewRequestContext(context.Background())
	assert.NotEqual(t, GetTraceID(ctx), GetTraceID(other))
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithSessionKey(WithTraceID(context.Background(), "trace-9"), "sess-9")
	logger := LoggerFromContext(ctx, base)
	logger.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"trace_id":"trace-9"`)
	assert.Contains(t, out, `"session_key":"sess-9"`)
}
