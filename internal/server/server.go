// Package server exposes casino sessions over WebSocket. Each connection gets
// its own session with a fresh balance.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/metrics"
)

// Server represents the WebSocket server
type Server struct {
	addr     string
	cfg      casino.Config
	upgrader websocket.Upgrader
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder

	mu          sync.Mutex
	connections map[*Connection]struct{}
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new WebSocket server. Sessions are built from cfg.
func NewServer(addr string, cfg casino.Config, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return &Server{
		addr: addr,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			// The browser front end is served from anywhere during development
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		registry:    reg,
		metrics:     metrics.NewRecorder(reg),
		connections: make(map[*Connection]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled, then closes every connection.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Stop()
	return err
}

// Stop closes every connection and waits for their sessions to end.
func (s *Server) Stop() {
	s.cancel()
	s.wg.Wait()
}

// ConnectionCount returns the number of live connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	session, err := casino.New(s.cfg, casino.WithLogger(s.logger))
	if err != nil {
		s.logger.Error("Failed to create session", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		session.Close()
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, session, s.logger.With("seed", session.Seed()))
	session.Subscribe(s.metrics)
	s.register(client)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.unregister(client)
		defer session.Close()
		if err := client.Run(s.ctx); err != nil {
			s.logger.Debug("Connection ended", "error", err)
		}
	}()
}

func (s *Server) register(c *Connection) {
	s.mu.Lock()
	s.connections[c] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.metrics.SessionOpened()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c)
	total := len(s.connections)
	s.mu.Unlock()
	s.metrics.SessionClosed()
	s.logger.Info("Client disconnected", "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
