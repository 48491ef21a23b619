package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanp/canvassist/internal/config"
	"github.com/raihanp/canvassist/pkg/catalog"
)

func noopHandler(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantName string
		wantErr  bool
	}{
		{
			name:     "groq",
			cfg:      config.LLMConfig{Provider: "groq", APIKey: "gsk_test"},
			wantName: "groq",
		},
		{
			name:     "openai",
			cfg:      config.LLMConfig{Provider: "openai", APIKey: "sk-test"},
			wantName: "openai",
		},
		{
			name:     "anthropic",
			cfg:      config.LLMConfig{Provider: "anthropic", APIKey: "sk-ant-test"},
			wantName: "anthropic",
		},
		{
			name:    "unsupported",
			cfg:     config.LLMConfig{Provider: "cohere", APIKey: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}

func TestSpecsFromCatalog(t *testing.T) {
	registry := catalog.NewRegistry()
	require.NoError(t, registry.RegisterAll([]catalog.Definition{
		{
			Name:        "get_course",
			Description: "Get details of a single course",
			Parameters: []catalog.Parameter{
				{Name: "course_id", Kind: catalog.KindInteger, Description: "Canvas course ID", Required: true},
			},
			Handler: noopHandler,
		},
		{
			Name:        "list_courses",
			Description: "List active courses",
			Handler:     noopHandler,
		},
	}))

	specs := SpecsFromCatalog(registry)
	require.Len(t, specs, 2)

	assert.Equal(t, "get_course", specs[0].Name)
	assert.Equal(t, "list_courses", specs[1].Name)

	schema := specs[0].InputSchema
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "course_id")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"course_id"}, required)
}
