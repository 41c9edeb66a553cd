package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/rps/internal/auth"
	"github.com/lox/rps/internal/gesture"
	"github.com/lox/rps/internal/round"
)

// Engine is the part of round.Engine the bridge drives
type Engine interface {
	Snapshot() round.Snapshot
	StartRound() error
	Reset()
}

// Observer receives classifier results from the camera page
type Observer interface {
	Observe(c gesture.Classification) round.Gesture
}

// Option configures a Server
type Option func(*Server)

// WithObserver routes gesture messages to o. Without one, gesture
// messages are rejected.
func WithObserver(o Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithAllowedOrigins restricts browser clients to the given origins.
// Entries are full origins ("http://localhost:5173") or bare hosts. With
// no entries every origin is accepted.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithValidator requires clients to present a token accepted by v.
func WithValidator(v auth.Validator) Option {
	return func(s *Server) {
		s.validator = v
	}
}

// Server bridges WebSocket clients and a round engine. It is a
// round.Listener: subscribe it to the engine to broadcast snapshots.
type Server struct {
	addr           string
	engine         Engine
	observer       Observer
	allowedOrigins []string
	validator      auth.Validator
	upgrader       websocket.Upgrader
	mux            *http.ServeMux
	logger         *log.Logger

	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewServer creates a bridge listening on addr
func NewServer(addr string, engine Engine, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		addr:        addr,
		engine:      engine,
		validator:   auth.NoopValidator{},
		logger:      logger.WithPrefix("feed"),
		connections: make(map[*Connection]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve listens on the server address until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("feed server: %w", err)
	case <-ctx.Done():
	}

	s.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("feed shutdown: %w", err)
	}
	s.logger.Info("WebSocket server stopped")
	return nil
}

// Stop closes all client connections
func (s *Server) Stop() {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// ConnectionCount returns the number of connected clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// OnSnapshot broadcasts a snapshot to every client
func (s *Server) OnSnapshot(snap round.Snapshot) {
	msg, err := NewMessage(MessageTypeSnapshot, snap)
	if err != nil {
		s.logger.Error("Failed to encode snapshot", "error", err)
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	count := 0
	for _, conn := range conns {
		if err := conn.SendMessage(msg); err == nil {
			count++
		}
	}
	s.logger.Debug("Broadcast message", "type", msg.Type, "recipients", count)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := s.validator.Validate(r.Context(), auth.TokenFromRequest(r)); err != nil {
		s.logger.Warn("Rejected connection", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade connection", "error", err, "origin", r.Header.Get("Origin"))
		return
	}

	client := newConnection(conn, s, s.unregister)

	// Registration and the initial snapshot happen under one lock so the
	// client never misses a transition between the two.
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	msg, err := NewMessage(MessageTypeSnapshot, s.engine.Snapshot())
	if err == nil {
		_ = client.SendMessage(msg)
	}
	s.mu.Unlock()

	s.logger.Info("Client connected", "remote", conn.RemoteAddr(), "total", total)
	client.Start()
}

func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c)
	total := len(s.connections)
	s.mu.Unlock()

	s.logger.Info("Client disconnected", "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(s.allowedOrigins) == 0 || origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(s.allowedOrigins, func(allowed string) bool {
		return strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Host)
	})
}
