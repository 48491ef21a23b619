package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/raihanp/canvassist/pkg/guard"
	"github.com/raihanp/canvassist/pkg/llm"
)

// DefaultMaxHistory is how many transcript messages the model sees.
const DefaultMaxHistory = 10

// State is the live, per-session conversation state. It is handed out
// locked by Manager.Acquire, so fields need no further synchronization
// within a turn.
type State struct {
	mu sync.Mutex

	key        string
	manager    *Manager
	maxHistory int

	history        []llm.Message
	activeCourseID *int64
	guard          *guard.Guard
}

// persistedState is the durable slice of State: what must survive a
// restart. History is rebuilt from the transcript instead.
type persistedState struct {
	ActiveCourseID *int64                     `json:"active_course_id,omitempty"`
	Pending        *guard.PendingConfirmation `json:"pending,omitempty"`
}

// History returns the model-visible message window.
func (s *State) History() []llm.Message {
	return s.history
}

// AppendHistory adds a message, evicting the oldest beyond the bound.
func (s *State) AppendHistory(msg llm.Message) {
	s.history = append(s.history, msg)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// ActiveCourseID returns the course context set for this session, if any.
func (s *State) ActiveCourseID() *int64 {
	return s.activeCourseID
}

// SetActiveCourseID pins or clears the course context.
func (s *State) SetActiveCourseID(courseID *int64) {
	s.activeCourseID = courseID
	s.persist()
}

// Guard returns the confirmation state machine for this session.
func (s *State) Guard() *guard.Guard {
	return s.guard
}

// Persist flushes the durable slice of the state. Call after guard
// transitions; SetActiveCourseID persists on its own.
func (s *State) Persist() {
	s.persist()
}

func (s *State) persist() {
	ps := persistedState{
		ActiveCourseID: s.activeCourseID,
		Pending:        s.guard.Pending(),
	}

	data, err := json.Marshal(ps)
	if err != nil {
		log.Warn().Str("session_key", s.key).Err(err).Msg("Failed to marshal session state")
		return
	}
	if err := os.WriteFile(s.manager.statePath(s.key), data, 0600); err != nil {
		log.Warn().Str("session_key", s.key).Err(err).Msg("Failed to persist session state")
	}
}

// restoreState rebuilds a session's live state from the transcript and the
// state file. Missing files just mean a fresh session.
func (sm *Manager) restoreState(sessionKey string) *State {
	state := &State{
		key:        sessionKey,
		manager:    sm,
		maxHistory: sm.maxHistory,
		guard:      guard.New(),
	}

	if entries, err := sm.LoadEntries(sessionKey); err == nil {
		for _, entry := range entries {
			role := entry.Message.Role
			if role != "user" && role != "assistant" {
				continue
			}
			state.AppendHistory(llm.Message{Role: role, Content: entry.Message.Content})
		}
	} else {
		log.Warn().Str("session_key", sessionKey).Err(err).Msg("Failed to restore transcript")
	}

	data, err := os.ReadFile(sm.statePath(sessionKey))
	if err != nil {
		return state
	}

	var ps persistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		log.Warn().Str("session_key", sessionKey).Err(err).Msg("Failed to parse session state, starting clean")
		return state
	}

	state.activeCourseID = ps.ActiveCourseID
	if ps.Pending != nil {
		state.guard.Restore(ps.Pending)
	}

	return state
}
