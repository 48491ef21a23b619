package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanp/canvassist/internal/config"
	"github.com/raihanp/canvassist/internal/metrics"
	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/canvastools"
	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/dispatch"
	"github.com/raihanp/canvassist/pkg/llm"
	"github.com/raihanp/canvassist/pkg/orchestrator"
	"github.com/raihanp/canvassist/pkg/session"
)

// echoProvider replies with fixed text and never calls tools.
type echoProvider struct {
	reply string
}

func (p *echoProvider) Complete(_ context.Context, _ llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: p.reply}, nil
}

func (p *echoProvider) Name() string { return "echo" }

func newTestServer(t *testing.T) (*Server, *httptest.Server, *session.Manager, *catalog.Registry) {
	t.Helper()

	canvasStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1}`))
	}))
	t.Cleanup(canvasStub.Close)

	client := canvas.New(canvasStub.URL, "token", canvas.Options{})
	registry, err := canvastools.NewRegistry(client, canvastools.Options{DefaultAccountID: 1})
	require.NoError(t, err)

	sessions, err := session.NewManager(t.TempDir(), 0, nil)
	require.NoError(t, err)

	broadcaster := NewBroadcaster(zerolog.Nop())

	orch, err := orchestrator.New(orchestrator.Config{
		Sessions:   sessions,
		Registry:   registry,
		Dispatcher: dispatch.New(registry, nil),
		Provider:   &echoProvider{reply: "Happy to help."},
		Events:     broadcaster,
		Logger:     zerolog.Nop(),
		LLM:        config.LLMConfig{Model: "test"},
	})
	require.NoError(t, err)

	server, err := NewServer(Config{
		Host:         "127.0.0.1",
		Port:         8080,
		Orchestrator: orch,
		Sessions:     sessions,
		Registry:     registry,
		Metrics:      metrics.NewMetrics(),
		Broadcaster:  broadcaster,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return server, ts, sessions, registry
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreateSession(t *testing.T) {
	_, ts, sessions, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created createSessionResponse
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.SessionKey)

	keys, err := sessions.ListSessions()
	require.NoError(t, err)
	assert.Contains(t, keys, created.SessionKey)
}

func TestPostMessage(t *testing.T) {
	_, ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions/sess1/messages", postMessageRequest{Message: "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result orchestrator.Result
	decodeBody(t, resp, &result)
	assert.Equal(t, "Happy to help.", result.Reply)
	assert.False(t, result.AwaitingConfirmation)
}

func TestPostMessageValidation(t *testing.T) {
	_, ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions/sess1/messages", postMessageRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Post(ts.URL+"/api/sessions/sess1/messages", "application/json", strings.NewReader("{oops"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSetCourse(t *testing.T) {
	_, ts, sessions, _ := newTestServer(t)

	courseID := int64(42)
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/sessions/sess1/course",
		bytes.NewReader([]byte(`{"course_id": 42}`)))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	state, release, err := sessions.Acquire("sess1")
	require.NoError(t, err)
	defer release()
	require.NotNil(t, state.ActiveCourseID())
	assert.Equal(t, courseID, *state.ActiveCourseID())
}

func TestSetCourseRejectsBadKey(t *testing.T) {
	_, ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/sessions/..%2Fbad/course",
		bytes.NewReader([]byte(`{"course_id": 1}`)))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestListTools(t *testing.T) {
	_, ts, _, registry := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/tools")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tools []toolInfo `json:"tools"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Tools, registry.Len())

	byName := make(map[string]toolInfo, len(body.Tools))
	for _, tool := range body.Tools {
		byName[tool.Name] = tool
	}
	assert.True(t, byName["delete_course"].Destructive)
	assert.False(t, byName["list_courses"].Destructive)
	assert.Equal(t, "object", byName["create_page"].InputSchema["type"])
}

func TestHealthz(t *testing.T) {
	_, ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	_, ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEventStream(t *testing.T) {
	server, ts, _, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/sess1/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return server.Broadcaster().WatcherCount("sess1") == 1
	}, time.Second, 10*time.Millisecond)

	server.Broadcaster().Publish("sess1", orchestrator.Event{
		Type: orchestrator.EventToolExecuted,
		Tool: "list_courses",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg EventMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, "sess1", msg.SessionKey)
	assert.Equal(t, "list_courses", msg.Event.Tool)
	assert.Equal(t, int64(1), msg.Seq)
}

func TestEventStreamScopedToSession(t *testing.T) {
	server, ts, _, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/other/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return server.Broadcaster().WatcherCount("other") == 1
	}, time.Second, 10*time.Millisecond)

	server.Broadcaster().Publish("sess1", orchestrator.Event{Type: orchestrator.EventToolExecuted})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "watcher of another session must not receive the event")
}
