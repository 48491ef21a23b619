package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func nopHandler(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Definition{
		Name:        "list_courses",
		Description: "List all courses for the current user",
		Parameters: []Parameter{
			{Name: "enrollment_type", Kind: KindString, Description: "Filter by enrollment type"},
		},
		Handler: nopHandler,
	})
	require.NoError(t, err)

	def, ok := r.Get("list_courses")
	require.True(t, ok)
	assert.Equal(t, "list_courses", def.Name)
	assert.False(t, def.Destructive)
	assert.NotNil(t, r.Schema("list_courses"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DuplicateNameIsError(t *testing.T) {
	r := NewRegistry()

	def := Definition{
		Name:        "delete_page",
		Description: "Delete a page",
		Destructive: true,
		Handler:     nopHandler,
	}
	require.NoError(t, r.Register(def))

	err := r.Register(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestRegistry_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{
			name: "empty name",
			def:  Definition{Description: "x", Handler: nopHandler},
		},
		{
			name: "empty description",
			def:  Definition{Name: "x", Handler: nopHandler},
		},
		{
			name: "nil handler",
			def:  Definition{Name: "x", Description: "x"},
		},
		{
			name: "bad kind",
			def: Definition{
				Name: "x", Description: "x", Handler: nopHandler,
				Parameters: []Parameter{{Name: "p", Kind: "float", Description: "p"}},
			},
		},
		{
			name: "enum without values",
			def: Definition{
				Name: "x", Description: "x", Handler: nopHandler,
				Parameters: []Parameter{{Name: "p", Kind: KindEnum, Description: "p"}},
			},
		},
		{
			name: "alias collides with parameter",
			def: Definition{
				Name: "x", Description: "x", Handler: nopHandler,
				Parameters: []Parameter{
					{Name: "title", Kind: KindString, Description: "t"},
					{Name: "body", Kind: KindString, Description: "b", Aliases: []string{"title"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewRegistry().Register(tt.def))
		})
	}
}

func TestRegistry_ListPreservesOrder(t *testing.T) {
	r := NewRegistry()

	names := []string{"list_courses", "get_course", "create_page"}
	for _, name := range names {
		require.NoError(t, r.Register(Definition{
			Name:        name,
			Description: name,
			Handler:     nopHandler,
		}))
	}

	defs := r.List()
	require.Len(t, defs, 3)
	for i, def := range defs {
		assert.Equal(t, names[i], def.Name)
	}
}

func TestRegistry_SchemaValidation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{
		Name:        "create_page",
		Description: "Create a page",
		Parameters: []Parameter{
			{Name: "course_id", Kind: KindInteger, Description: "Course ID", Required: true},
			{Name: "title", Kind: KindString, Description: "Title", Required: true},
		},
		Handler: nopHandler,
	}))

	schema := r.Schema("create_page")
	require.NotNil(t, schema)

	// Valid payload passes
	result, err := schema.Validate(gojsonschema.NewGoLoader(map[string]any{
		"course_id": int64(42),
		"title":     "Welcome",
	}))
	require.NoError(t, err)
	assert.True(t, result.Valid())

	// Missing required field fails
	result, err = schema.Validate(gojsonschema.NewGoLoader(map[string]any{"title": "Welcome"}))
	require.NoError(t, err)
	assert.False(t, result.Valid())

	// Unknown field fails (additionalProperties is false)
	result, err = schema.Validate(gojsonschema.NewGoLoader(map[string]any{
		"course_id": int64(42),
		"title":     "Welcome",
		"bogus":     1,
	}))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}
