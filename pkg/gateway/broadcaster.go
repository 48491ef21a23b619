package gateway

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/raihanp/canvassist/pkg/orchestrator"
)

const writeTimeout = 5 * time.Second

// EventMessage is the wire envelope for one streamed event.
type EventMessage struct {
	Type       string             `json:"type"`
	SessionKey string             `json:"session_key"`
	Event      orchestrator.Event `json:"event"`
	Timestamp  int64              `json:"timestamp"`
	Seq        int64              `json:"seq"`
}

// Broadcaster fans turn events out to the websocket watchers of a session.
// It satisfies orchestrator.EventPublisher; Publish never blocks a turn
// beyond the per-connection write timeout.
type Broadcaster struct {
	logger zerolog.Logger
	seq    atomic.Int64

	mu       sync.RWMutex
	watchers map[string]map[*watcher]struct{}
}

// watcher serializes writes to one websocket connection.
type watcher struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *watcher) send(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		logger:   logger,
		watchers: make(map[string]map[*watcher]struct{}),
	}
}

// Publish sends an event to every watcher of the session. A watcher whose
// write fails is dropped.
func (b *Broadcaster) Publish(sessionKey string, event orchestrator.Event) {
	msg := EventMessage{
		Type:       "event",
		SessionKey: sessionKey,
		Event:      event,
		Timestamp:  time.Now().UnixMilli(),
		Seq:        b.seq.Add(1),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Type).Msg("Failed to marshal event")
		return
	}

	for _, w := range b.snapshot(sessionKey) {
		if err := w.send(data); err != nil {
			b.logger.Warn().Err(err).Str("session_key", sessionKey).Msg("Dropping event watcher")
			b.remove(sessionKey, w)
			w.conn.Close()
		}
	}
}

// Watch registers a connection for a session's events. The returned func
// deregisters it; the caller still owns closing the connection.
func (b *Broadcaster) Watch(sessionKey string, conn *websocket.Conn) func() {
	w := &watcher{conn: conn}

	b.mu.Lock()
	set, ok := b.watchers[sessionKey]
	if !ok {
		set = make(map[*watcher]struct{})
		b.watchers[sessionKey] = set
	}
	set[w] = struct{}{}
	b.mu.Unlock()

	b.logger.Debug().Str("session_key", sessionKey).Msg("Event watcher attached")

	return func() { b.remove(sessionKey, w) }
}

// WatcherCount reports how many connections watch a session.
func (b *Broadcaster) WatcherCount(sessionKey string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.watchers[sessionKey])
}

// CloseAll closes every watcher connection, for shutdown.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sessionKey, set := range b.watchers {
		for w := range set {
			w.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeTimeout))
			w.conn.Close()
		}
		delete(b.watchers, sessionKey)
	}
}

func (b *Broadcaster) snapshot(sessionKey string) []*watcher {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set := b.watchers[sessionKey]
	out := make([]*watcher, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	return out
}

func (b *Broadcaster) remove(sessionKey string, w *watcher) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.watchers[sessionKey]
	delete(set, w)
	if len(set) == 0 {
		delete(b.watchers, sessionKey)
	}
}
