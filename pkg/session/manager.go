package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/raihanp/canvassist/internal/metrics"
)

// Message is a single transcript line: what the user said, what the
// assistant replied, or a tool outcome summary.
type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Entry is a transcript line with its session key, the JSONL row format.
type Entry struct {
	SessionKey string  `json:"sessionKey"`
	Message    Message `json:"message"`
}

// Manager owns session persistence and the live per-session state.
type Manager struct {
	dir        string
	maxHistory int
	metrics    *metrics.Metrics

	statesMu sync.Mutex
	states   map[string]*State

	locksMu    sync.RWMutex
	writeLocks map[string]*sync.Mutex
}

// NewManager creates a manager rooted at dir, creating it if needed.
// maxHistory bounds the model-visible history per session. metrics may be
// nil.
func NewManager(dir string, maxHistory int, m *metrics.Metrics) (*Manager, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".canvassist", "sessions")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}

	sm := &Manager{
		dir:        dir,
		maxHistory: maxHistory,
		metrics:    m,
		states:     make(map[string]*State),
		writeLocks: make(map[string]*sync.Mutex),
	}

	log.Info().Str("dir", dir).Int("max_history", maxHistory).Msg("Session manager initialized")
	sm.updateActiveSessionsMetric()

	return sm, nil
}

// ValidateKey rejects session keys that could escape the sessions
// directory.
func ValidateKey(sessionKey string) error {
	if sessionKey == "" {
		return fmt.Errorf("session key cannot be empty")
	}
	if strings.Contains(sessionKey, "..") {
		return fmt.Errorf("session key cannot contain '..'")
	}
	if strings.ContainsAny(sessionKey, "/\\") {
		return fmt.Errorf("session key cannot contain path separators")
	}
	if strings.Contains(sessionKey, "\x00") {
		return fmt.Errorf("session key cannot contain null bytes")
	}
	return nil
}

func (sm *Manager) transcriptPath(sessionKey string) string {
	return filepath.Join(sm.dir, sessionKey+".jsonl")
}

func (sm *Manager) statePath(sessionKey string) string {
	return filepath.Join(sm.dir, sessionKey+".state.json")
}

func (sm *Manager) getWriteLock(sessionKey string) *sync.Mutex {
	sm.locksMu.Lock()
	defer sm.locksMu.Unlock()

	if lock, exists := sm.writeLocks[sessionKey]; exists {
		return lock
	}
	lock := &sync.Mutex{}
	sm.writeLocks[sessionKey] = lock
	return lock
}

// Acquire returns the live state for a session, locked for one turn. The
// caller must invoke the release function when the turn ends. A session
// not seen since startup is restored from disk.
func (sm *Manager) Acquire(sessionKey string) (*State, func(), error) {
	if err := ValidateKey(sessionKey); err != nil {
		return nil, nil, err
	}

	sm.statesMu.Lock()
	state, exists := sm.states[sessionKey]
	if !exists {
		state = sm.restoreState(sessionKey)
		sm.states[sessionKey] = state
	}
	sm.statesMu.Unlock()

	state.mu.Lock()
	return state, state.mu.Unlock, nil
}

// CreateSession creates an empty transcript so the session is listable
// before its first message.
func (sm *Manager) CreateSession(sessionKey string) error {
	if err := ValidateKey(sessionKey); err != nil {
		return err
	}

	path := sm.transcriptPath(sessionKey)
	if _, err := os.Stat(path); err == nil {
		log.Debug().Str("session_key", sessionKey).Msg("Session already exists")
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	file.Close()

	if sm.metrics != nil {
		sm.metrics.SessionsTotal.Inc()
	}
	sm.updateActiveSessionsMetric()
	log.Info().Str("session_key", sessionKey).Msg("Session created")

	return nil
}

// AppendMessage appends one transcript line.
func (sm *Manager) AppendMessage(sessionKey string, message Message) error {
	if err := ValidateKey(sessionKey); err != nil {
		return err
	}
	if message.Role == "" {
		return fmt.Errorf("message role cannot be empty")
	}
	if message.Content == "" {
		return fmt.Errorf("message content cannot be empty")
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	lock := sm.getWriteLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	path := sm.transcriptPath(sessionKey)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := sm.CreateSession(sessionKey); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(Entry{SessionKey: sessionKey, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	log.Debug().Str("session_key", sessionKey).Str("role", message.Role).Msg("Message appended")
	return nil
}

// LoadEntries reads the full transcript. Corrupt lines are skipped, not
// fatal.
func (sm *Manager) LoadEntries(sessionKey string) ([]Entry, error) {
	if err := ValidateKey(sessionKey); err != nil {
		return nil, err
	}

	path := sm.transcriptPath(sessionKey)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []Entry{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			log.Warn().Str("session_key", sessionKey).Int("line", lineNum).Err(err).Msg("Failed to parse line, skipping")
			continue
		}
		if entry.Message.Role == "" || entry.Message.Content == "" {
			log.Warn().Str("session_key", sessionKey).Int("line", lineNum).Msg("Invalid entry, skipping")
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	return entries, nil
}

// ListSessions returns the keys of all persisted sessions.
func (sm *Manager) ListSessions() ([]string, error) {
	dirEntries, err := os.ReadDir(sm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []string
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(name, ".jsonl"))
	}
	return sessions, nil
}

// LastActivity reports when a session was last written to.
func (sm *Manager) LastActivity(sessionKey string) (time.Time, error) {
	if err := ValidateKey(sessionKey); err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(sm.transcriptPath(sessionKey))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat session file: %w", err)
	}
	return info.ModTime(), nil
}

// DeleteSession removes a session's transcript, state file, and live
// state.
func (sm *Manager) DeleteSession(sessionKey string) error {
	if err := ValidateKey(sessionKey); err != nil {
		return err
	}

	lock := sm.getWriteLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(sm.transcriptPath(sessionKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	if err := os.Remove(sm.statePath(sessionKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}

	sm.statesMu.Lock()
	delete(sm.states, sessionKey)
	sm.statesMu.Unlock()

	sm.locksMu.Lock()
	delete(sm.writeLocks, sessionKey)
	sm.locksMu.Unlock()

	sm.updateActiveSessionsMetric()
	log.Info().Str("session_key", sessionKey).Msg("Session deleted")

	return nil
}

func (sm *Manager) updateActiveSessionsMetric() {
	if sm.metrics == nil {
		return
	}
	sessions, err := sm.ListSessions()
	if err != nil {
		return
	}
	sm.metrics.SessionsActive.Set(float64(len(sessions)))
}
