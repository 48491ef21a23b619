package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

// newTestClient returns a client pointed at a stub Canvas server that records
// the last request and replies with the given status and body.
func newTestClient(t *testing.T, status int, responseBody string) (*Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = r.URL.Query()
		if r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				captured.Body = body
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, "1234~token", Options{Logger: zerolog.Nop()})
	return client, captured
}

func TestClient_ListCourses(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `[{"id": 42, "name": "Biology"}]`)

	result, err := client.ListCourses(context.Background(), ListCoursesParams{
		EnrollmentType:  "teacher",
		EnrollmentState: "active",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/api/v1/courses", captured.Path)
	assert.Equal(t, "teacher", captured.Query["enrollment_type"][0])
	assert.Equal(t, "active", captured.Query["enrollment_state"][0])

	courses, ok := result.([]any)
	require.True(t, ok)
	require.Len(t, courses, 1)
	course := courses[0].(map[string]any)
	assert.Equal(t, "Biology", course["name"])
}

func TestClient_CreatePage_BodyShape(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"page_id": 7}`)

	_, err := client.CreatePage(context.Background(), CreatePageParams{
		CourseID:  42,
		Title:     "Welcome",
		Body:      "<h1>Welcome</h1>",
		Published: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/courses/42/pages", captured.Path)
	page := captured.Body["wiki_page"].(map[string]any)
	assert.Equal(t, "Welcome", page["title"])
	assert.Equal(t, "<h1>Welcome</h1>", page["body"])
	assert.Equal(t, true, page["published"])
	assert.Equal(t, "teachers", page["editing_roles"])
}

func TestClient_DeleteCourse_DefaultEvent(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"id": 42}`)

	_, err := client.DeleteCourse(context.Background(), 42, "")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, captured.Method)
	assert.Equal(t, "delete", captured.Query["event"][0])
}

func TestClient_UpdateCourse_InvalidEvent(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{}`)

	_, err := client.UpdateCourse(context.Background(), UpdateCourseParams{
		CourseID: 42,
		Event:    "archive",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid course event")
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusNotFound, `{"errors": [{"message": "The specified resource does not exist."}]}`)

	_, err := client.GetCourse(context.Background(), 999, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "does not exist")
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/", "1234~token", Options{Logger: zerolog.Nop()})
	_, err := client.GetCourse(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer 1234~token", gotAuth)
}

func TestClient_CreateAnnouncement_IsAnnouncementFlag(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"id": 5}`)

	_, err := client.CreateAnnouncement(context.Background(), 42, "Exam moved", "<p>Now Friday</p>", true)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/courses/42/discussion_topics", captured.Path)
	assert.Equal(t, true, captured.Body["is_announcement"])
	assert.Equal(t, true, captured.Body["published"])
	assert.Equal(t, "Exam moved", captured.Body["title"])
}

func TestClient_MalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{not json`)

	_, err := client.GetCourse(context.Background(), 1, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "malformed")
}
