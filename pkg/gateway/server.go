// Package gateway exposes the assistant over HTTP for a chat UI: session
// creation, one-turn message posts, course selection, the tool listing,
// and a websocket stream of per-session turn events.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/raihanp/canvassist/internal/metrics"
	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/orchestrator"
	"github.com/raihanp/canvassist/pkg/session"
)

// Server is the HTTP gateway.
type Server struct {
	host string
	port int

	orchestrator *orchestrator.Orchestrator
	sessions     *session.Manager
	registry     *catalog.Registry
	metrics      *metrics.Metrics
	broadcaster  *Broadcaster
	logger       zerolog.Logger

	upgrader websocket.Upgrader
	server   *http.Server
}

// Config holds gateway configuration. Metrics may be nil, which disables
// the /metrics route.
type Config struct {
	Host         string
	Port         int
	Orchestrator *orchestrator.Orchestrator
	Sessions     *session.Manager
	Registry     *catalog.Registry
	Metrics      *metrics.Metrics
	Broadcaster  *Broadcaster
	Logger       zerolog.Logger
}

// NewServer creates a gateway server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}

	broadcaster := cfg.Broadcaster
	if broadcaster == nil {
		broadcaster = NewBroadcaster(cfg.Logger)
	}

	s := &Server{
		host:         cfg.Host,
		port:         cfg.Port,
		orchestrator: cfg.Orchestrator,
		sessions:     cfg.Sessions,
		registry:     cfg.Registry,
		metrics:      cfg.Metrics,
		broadcaster:  broadcaster,
		logger:       cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// The gateway fronts a trusted local UI.
				return true
			},
		},
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Broadcaster returns the event broadcaster so it can be wired into the
// orchestrator as its event sink.
func (s *Server) Broadcaster() *Broadcaster {
	return s.broadcaster
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("POST /api/sessions/{key}/messages", s.handlePostMessage)
	mux.HandleFunc("PUT /api/sessions/{key}/course", s.handleSetCourse)
	mux.HandleFunc("GET /api/sessions/{key}/events", s.handleEvents)
	mux.HandleFunc("GET /api/tools", s.handleListTools)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return mux
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Gateway listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, closing event streams first so clients see a
// clean close frame.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.CloseAll()
	return s.server.Shutdown(ctx)
}
