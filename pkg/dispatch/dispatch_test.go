package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanp/canvassist/internal/metrics"
	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/normalize"
)

func newTestDispatcher(t *testing.T, defs ...catalog.Definition) *Dispatcher {
	t.Helper()
	registry := catalog.NewRegistry()
	require.NoError(t, registry.RegisterAll(defs))
	return New(registry, metrics.NewMetrics())
}

func TestExecuteSuccess(t *testing.T) {
	d := newTestDispatcher(t, catalog.Definition{
		Name:        "get_course",
		Description: "Get a course",
		Parameters: []catalog.Parameter{
			{Name: "course_id", Kind: catalog.KindInteger, Description: "Course ID", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"id": args["course_id"], "name": "Biology"}, nil
		},
	})

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{
		Name:      "get_course",
		Arguments: map[string]any{"course_id": int64(42)},
	})

	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Error)
	payload, ok := outcome.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Biology", payload["name"])
}

func TestExecuteUnknownTool(t *testing.T) {
	d := newTestDispatcher(t)

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{Name: "launch_rocket"})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "tool not found")
}

func TestExecuteHandlerError(t *testing.T) {
	d := newTestDispatcher(t, catalog.Definition{
		Name:        "flaky_tool",
		Description: "Always fails",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	})

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{
		Name:      "flaky_tool",
		Arguments: map[string]any{},
	})
	assert.False(t, outcome.Success)
	assert.Equal(t, "boom", outcome.Error)
}

func TestExecuteWrapsAPIError(t *testing.T) {
	d := newTestDispatcher(t, catalog.Definition{
		Name:        "get_course",
		Description: "Get a course",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, &canvas.APIError{StatusCode: 404, Message: "The specified resource does not exist."}
		},
	})

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{
		Name:      "get_course",
		Arguments: map[string]any{},
	})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "HTTP 404")
	assert.Contains(t, outcome.Error, "does not exist")
}

func TestExecuteDescribesNetworkFailure(t *testing.T) {
	d := newTestDispatcher(t, catalog.Definition{
		Name:        "get_course",
		Description: "Get a course",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			// Transport failures carry no HTTP status.
			return nil, &canvas.APIError{Message: "request failed: connection refused"}
		},
	})

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{
		Name:      "get_course",
		Arguments: map[string]any{},
	})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "network error while running get_course")
	assert.Contains(t, outcome.Error, "connection refused")
	assert.NotContains(t, outcome.Error, "HTTP 0")
}

func TestExecuteRecoversPanic(t *testing.T) {
	d := newTestDispatcher(t, catalog.Definition{
		Name:        "panicky_tool",
		Description: "Panics",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			panic("nil map write")
		},
	})

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{
		Name:      "panicky_tool",
		Arguments: map[string]any{},
	})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "failed unexpectedly")
}

func TestExecuteRejectsInvalidArguments(t *testing.T) {
	d := newTestDispatcher(t, catalog.Definition{
		Name:        "get_course",
		Description: "Get a course",
		Parameters: []catalog.Parameter{
			{Name: "course_id", Kind: catalog.KindInteger, Description: "Course ID", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			t.Fatal("handler must not run on invalid arguments")
			return nil, nil
		},
	})

	outcome := d.Execute(context.Background(), normalize.NormalizedCall{
		Name:      "get_course",
		Arguments: map[string]any{"course_id": "not-a-number"},
	})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "invalid arguments")
}
