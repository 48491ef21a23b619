package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/llm"
)

func testRegistry(t *testing.T) *catalog.Registry {
	t.Helper()

	handler := func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }

	registry := catalog.NewRegistry()
	require.NoError(t, registry.RegisterAll([]catalog.Definition{
		{
			Name:        "create_page",
			Description: "Create a wiki page in a course",
			Parameters: []catalog.Parameter{
				{Name: "course_id", Kind: catalog.KindInteger, Description: "Canvas course ID", Required: true},
				{Name: "title", Kind: catalog.KindString, Description: "Page title", Required: true, Aliases: []string{"subject"}},
				{Name: "body", Kind: catalog.KindString, Description: "Page body HTML", Required: true, Aliases: []string{"content"}},
				{Name: "published", Kind: catalog.KindBoolean, Description: "Publish immediately", Default: false, Aliases: []string{"is_published"}},
			},
			Handler: handler,
		},
		{
			Name:        "list_modules",
			Description: "List modules in a course",
			Parameters: []catalog.Parameter{
				{Name: "course_id", Kind: catalog.KindInteger, Description: "Canvas course ID", Required: true},
				{Name: "include", Kind: catalog.KindArray, Description: "Extra data to include"},
			},
			Handler: handler,
		},
		{
			Name:        "update_course",
			Description: "Change the workflow state of a course",
			Parameters: []catalog.Parameter{
				{Name: "course_id", Kind: catalog.KindInteger, Description: "Canvas course ID", Required: true},
				{Name: "event", Kind: catalog.KindEnum, Description: "Workflow event", Required: true, Enum: []string{"offer", "claim", "conclude", "delete", "undelete"}},
			},
			Handler: handler,
		},
	}))
	return registry
}

func TestNormalizeHappyPath(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		ID:   "call_1",
		Name: "create_page",
		Arguments: map[string]any{
			"course_id": "123",
			"title":     "Welcome",
			"body":      "<h1>Welcome</h1><p>Hello</p>",
		},
	}

	normalized, err := n.Normalize(call, nil)
	require.NoError(t, err)

	assert.Equal(t, "call_1", normalized.ID)
	assert.Equal(t, "create_page", normalized.Name)
	assert.Equal(t, int64(123), normalized.Arguments["course_id"])
	assert.Equal(t, "Welcome", normalized.Arguments["title"])
	assert.Equal(t, false, normalized.Arguments["published"], "default should apply")
}

func TestNormalizeAliases(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"course_id":    float64(7),
			"subject":      "Syllabus",
			"content":      "<p>Read me</p>",
			"is_published": "true",
		},
	}

	normalized, err := n.Normalize(call, nil)
	require.NoError(t, err)

	assert.Equal(t, "Syllabus", normalized.Arguments["title"])
	assert.Equal(t, "<p>Read me</p>", normalized.Arguments["body"])
	assert.Equal(t, true, normalized.Arguments["published"])
	assert.NotContains(t, normalized.Arguments, "subject")
	assert.NotContains(t, normalized.Arguments, "content")
	assert.NotContains(t, normalized.Arguments, "is_published")
}

func TestNormalizeCanonicalWinsOverAlias(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"course_id": float64(7),
			"title":     "Canonical",
			"subject":   "Alias",
			"body":      "<p>x</p>",
		},
	}

	normalized, err := n.Normalize(call, nil)
	require.NoError(t, err)
	assert.Equal(t, "Canonical", normalized.Arguments["title"])
}

func TestNormalizeDropsUnknownArguments(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"course_id":   float64(7),
			"title":       "Welcome",
			"body":        "<p>x</p>",
			"make_it_pop": true,
		},
	}

	normalized, err := n.Normalize(call, nil)
	require.NoError(t, err)
	assert.NotContains(t, normalized.Arguments, "make_it_pop")
}

func TestNormalizeInjectsActiveCourse(t *testing.T) {
	n := New(testRegistry(t))
	active := int64(42)

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"title": "Welcome",
			"body":  "<p>x</p>",
		},
	}

	normalized, err := n.Normalize(call, &active)
	require.NoError(t, err)
	assert.Equal(t, int64(42), normalized.Arguments["course_id"])
}

func TestNormalizeExplicitCourseBeatsActive(t *testing.T) {
	n := New(testRegistry(t))
	active := int64(42)

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"course_id": float64(9),
			"title":     "Welcome",
			"body":      "<p>x</p>",
		},
	}

	normalized, err := n.Normalize(call, &active)
	require.NoError(t, err)
	assert.Equal(t, int64(9), normalized.Arguments["course_id"])
}

func TestNormalizeIncludeItems(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "list_modules",
		Arguments: map[string]any{
			"course_id":     float64(7),
			"include_items": true,
		},
	}

	normalized, err := n.Normalize(call, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"items"}, normalized.Arguments["include"])
	assert.NotContains(t, normalized.Arguments, "include_items")
}

func TestNormalizeEnumCaseInsensitive(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "update_course",
		Arguments: map[string]any{
			"course_id": float64(7),
			"event":     "Conclude",
		},
	}

	normalized, err := n.Normalize(call, nil)
	require.NoError(t, err)
	assert.Equal(t, "conclude", normalized.Arguments["event"])
}

func TestNormalizeValidationErrors(t *testing.T) {
	n := New(testRegistry(t))

	tests := []struct {
		name string
		call llm.ToolCall
	}{
		{
			name: "unknown tool",
			call: llm.ToolCall{Name: "launch_rocket", Arguments: map[string]any{}},
		},
		{
			name: "missing required",
			call: llm.ToolCall{Name: "create_page", Arguments: map[string]any{
				"course_id": float64(7),
				"title":     "Welcome",
			}},
		},
		{
			name: "uncoercible integer",
			call: llm.ToolCall{Name: "create_page", Arguments: map[string]any{
				"course_id": "the biology one",
				"title":     "Welcome",
				"body":      "<p>x</p>",
			}},
		},
		{
			name: "invalid enum value",
			call: llm.ToolCall{Name: "update_course", Arguments: map[string]any{
				"course_id": float64(7),
				"event":     "explode",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.call, nil)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
		})
	}
}

func TestNormalizePlaceholders(t *testing.T) {
	n := New(testRegistry(t))

	tests := []struct {
		name string
		body string
	}{
		{name: "your marker", body: "<YOUR_HTML_CONTENT>"},
		{name: "insert marker", body: "see <INSERT_TEXT> here"},
		{name: "lowercase marker", body: "<your_course_id>"},
		{name: "bare single tag", body: "<PLACEHOLDER>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := llm.ToolCall{
				Name: "create_page",
				Arguments: map[string]any{
					"course_id": float64(7),
					"title":     "Welcome",
					"body":      tt.body,
				},
			}

			_, err := n.Normalize(call, nil)
			require.Error(t, err)

			var perr *PlaceholderError
			assert.True(t, errors.As(err, &perr), "want *PlaceholderError, got %T", err)
		})
	}
}

func TestNormalizeBlankRequiredIsPlaceholder(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"course_id": float64(7),
			"title":     "  ",
			"body":      "<p>x</p>",
		},
	}

	_, err := n.Normalize(call, nil)
	require.Error(t, err)

	var perr *PlaceholderError
	require.True(t, errors.As(err, &perr), "want *PlaceholderError, got %T", err)
	assert.Equal(t, "title", perr.Param)
}

func TestNormalizeAllowsRealHTML(t *testing.T) {
	n := New(testRegistry(t))

	call := llm.ToolCall{
		Name: "create_page",
		Arguments: map[string]any{
			"course_id": float64(7),
			"title":     "Welcome",
			"body":      "<h1>Week 1</h1><p>Readings below.</p>",
		},
	}

	_, err := n.Normalize(call, nil)
	require.NoError(t, err)
}
