package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/raihanp/canvassist/internal/tracing"
)

type createSessionResponse struct {
	SessionKey string `json:"session_key"`
}

type postMessageRequest struct {
	Message string `json:"message"`
}

type setCourseRequest struct {
	// CourseID null clears the active course.
	CourseID *int64 `json:"course_id"`
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Destructive bool           `json:"destructive"`
	InputSchema map[string]any `json:"input_schema"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	key, err := gonanoid.New()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate session key")
		return
	}

	if err := s.sessions.CreateSession(key); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, createSessionResponse{SessionKey: key})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.PathValue("key")

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := tracing.NewRequestContext(r.Context())
	result, err := s.orchestrator.Turn(ctx, sessionKey, req.Message)
	if err != nil {
		logger := tracing.LoggerFromContext(ctx, s.logger)
		logger.Error().Str("session_key", sessionKey).Err(err).Msg("Turn failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetCourse(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.PathValue("key")

	var req setCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	state, release, err := s.sessions.Acquire(sessionKey)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer release()

	state.SetActiveCourseID(req.CourseID)
	s.writeJSON(w, http.StatusOK, map[string]any{"active_course_id": req.CourseID})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	defs := s.registry.List()
	tools := make([]toolInfo, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, toolInfo{
			Name:        def.Name,
			Description: def.Description,
			Destructive: def.Destructive,
			InputSchema: def.InputSchema(),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvents upgrades to a websocket and streams the session's turn
// events until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.PathValue("key")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Warn().Str("session_key", sessionKey).Err(err).Msg("Websocket upgrade failed")
		return
	}

	detach := s.broadcaster.Watch(sessionKey, conn)
	defer func() {
		detach()
		conn.Close()
	}()

	// Drain the read side; clients only listen, but the read loop is what
	// notices the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) &&
				!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Str("session_key", sessionKey).Err(err).Msg("Event watcher read ended")
			}
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
