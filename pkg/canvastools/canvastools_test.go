package canvastools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanp/canvassist/pkg/canvas"
)

var destructiveTools = []string{
	"delete_course", "delete_module", "delete_page",
	"delete_assignment", "delete_quiz", "delete_discussion",
}

func newStubClient(t *testing.T, handler http.HandlerFunc) *canvas.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return canvas.New(srv.URL, "1234~token", canvas.Options{Logger: zerolog.Nop()})
}

// TestCatalogIsWellFormed is the startup sanity check run as a test: every
// definition must register cleanly, with no duplicate names and no alias
// collisions.
func TestCatalogIsWellFormed(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {})

	registry, err := NewRegistry(client, Options{DefaultAccountID: 1})
	require.NoError(t, err)

	assert.Equal(t, 34, registry.Len())

	for _, def := range registry.List() {
		assert.NotEmpty(t, def.Description, "tool %s needs a description", def.Name)
		assert.NotNil(t, registry.Schema(def.Name), "tool %s needs a compiled schema", def.Name)
	}
}

func TestDestructiveFlags(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {})
	registry, err := NewRegistry(client, Options{})
	require.NoError(t, err)

	want := make(map[string]bool, len(destructiveTools))
	for _, name := range destructiveTools {
		want[name] = true
	}

	for _, def := range registry.List() {
		assert.Equal(t, want[def.Name], def.Destructive, "tool %s destructive flag", def.Name)
	}
}

func TestEveryCourseScopedToolRequiresCourseID(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {})
	registry, err := NewRegistry(client, Options{})
	require.NoError(t, err)

	courseless := map[string]bool{"list_courses": true, "create_course": true}

	for _, def := range registry.List() {
		if courseless[def.Name] {
			_, ok := def.Param("course_id")
			assert.False(t, ok, "tool %s should not take course_id", def.Name)
			continue
		}
		param, ok := def.Param("course_id")
		require.True(t, ok, "tool %s must take course_id", def.Name)
		assert.True(t, param.Required, "course_id on %s must be required", def.Name)
	}
}

func TestCreateCourseUsesDefaultAccount(t *testing.T) {
	var gotPath string
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 900}`))
	})

	registry, err := NewRegistry(client, Options{DefaultAccountID: 5})
	require.NoError(t, err)

	def, ok := registry.Get("create_course")
	require.True(t, ok)

	_, err = def.Handler(context.Background(), map[string]any{
		"name":        "Biology 101",
		"course_code": "BIO101",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/accounts/5/courses", gotPath)
}

func TestDeletePageHandler(t *testing.T) {
	var gotMethod, gotPath string
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deleted": true}`))
	})

	registry, err := NewRegistry(client, Options{})
	require.NoError(t, err)

	def, ok := registry.Get("delete_page")
	require.True(t, ok)

	_, err = def.Handler(context.Background(), map[string]any{
		"course_id": int64(42),
		"page_url":  "welcome",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/courses/42/pages/welcome", gotPath)
}

func TestCreateModuleWithItems(t *testing.T) {
	var paths []string
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/modules") && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"id": 10, "name": "Week 1"}`))
		case strings.HasSuffix(r.URL.Path, "/pages"):
			_, _ = w.Write([]byte(`{"page_id": 77, "url": "week-1-overview"}`))
		case strings.HasSuffix(r.URL.Path, "/assignments"):
			_, _ = w.Write([]byte(`{"id": 301, "name": "Homework 1"}`))
		case strings.Contains(r.URL.Path, "/items"):
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(body["module_item"])
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})

	registry, err := NewRegistry(client, Options{})
	require.NoError(t, err)

	def, ok := registry.Get("create_module_with_items")
	require.True(t, ok)

	result, err := def.Handler(context.Background(), map[string]any{
		"course_id": int64(42),
		"name":      "Week 1",
		"items": []any{
			map[string]any{"type": "SubHeader", "title": "Readings"},
			map[string]any{"type": "Page", "title": "Week 1 Overview", "body": "<p>Start here</p>"},
			map[string]any{"type": "Assignment", "title": "Homework 1", "points_possible": float64(10)},
			map[string]any{"type": "ExternalUrl", "title": "Syllabus", "external_url": "https://example.edu/syllabus"},
		},
	})
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.NotNil(t, out["module"])
	items, ok := out["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 4)

	// One module create, one page create, one assignment create, four links
	assert.Equal(t, 7, len(paths))
	assert.Equal(t, "POST /api/v1/courses/42/modules", paths[0])
}

func TestCreateModuleWithItemsRejectsUnknownType(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 10}`))
	})

	registry, err := NewRegistry(client, Options{})
	require.NoError(t, err)

	def, _ := registry.Get("create_module_with_items")
	_, err = def.Handler(context.Background(), map[string]any{
		"course_id": int64(42),
		"name":      "Week 1",
		"items": []any{
			map[string]any{"type": "Hologram", "title": "Nope"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported item type")
}
