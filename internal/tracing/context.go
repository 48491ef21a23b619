package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID
	TraceIDKey ContextKey = "trace_id"
	// SessionKeyKey is the context key for session key
	SessionKeyKey ContextKey = "session_key"
	// ToolNameKey is the context key for the tool currently dispatched
	ToolNameKey ContextKey = "tool_name"
)

// NewTraceID generates a new trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// NewRequestContext returns a context carrying a fresh trace ID.
func NewRequestContext(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithSessionKey adds a session key to the context
func WithSessionKey(ctx context.Context, sessionKey string) context.Context {
	return context.WithValue(ctx, SessionKeyKey, sessionKey)
}

// WithToolName adds the dispatched tool name to the context
func WithToolName(ctx context.Context, toolName string) context.Context {
	return context.WithValue(ctx, ToolNameKey, toolName)
}

// GetTraceID retrieves the trace ID from the context
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// GetSessionKey retrieves the session key from the context
func GetSessionKey(ctx context.Context) string {
	if sessionKey, ok := ctx.Value(SessionKeyKey).(string); ok {
		return sessionKey
	}
	return ""
}

// GetToolName retrieves the dispatched tool name from the context
func GetToolName(ctx context.Context) string {
	if toolName, ok := ctx.Value(ToolNameKey).(string); ok {
		return toolName
	}
	return ""
}

// LoggerFromContext returns a logger enriched with whatever correlation
// fields are present on the context.
func LoggerFromContext(ctx context.Context, baseLogger zerolog.Logger) zerolog.Logger {
	builder := baseLogger.With()

	if traceID := GetTraceID(ctx); traceID != "" {
		builder = builder.Str("trace_id", traceID)
	}
	if sessionKey := GetSessionKey(ctx); sessionKey != "" {
		builder = builder.Str("session_key", sessionKey)
	}
	if toolName := GetToolName(ctx); toolName != "" {
		builder = builder.Str("tool_name", toolName)
	}

	return builder.Logger()
}
