package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/favlauncher/internal/config"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/mw"
	"github.com/MrSnakeDoc/favlauncher/internal/httpserver/routes"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// Server is the favorites API.
type Server struct {
	http   *http.Server
	router chi.Router
	logger logger.Logger

	mu   sync.Mutex
	addr net.Addr
}

// New mounts every API area behind the global middlewares.
func New(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) *Server {
	r := chi.NewRouter()
	r.Use(
		middleware.GetHead,
		middleware.RequestID,
		middleware.Recoverer,
		mw.Log(loggerClient),
	)
	r.NotFound(handlers.NotFound(d))
	r.MethodNotAllowed(handlers.MethodNotAllowed(d))

	routes.RegisterAll(r, d)

	return &Server{
		http: &http.Server{
			Addr:              cfg.ListenPort,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
			// no WriteTimeout: /api/events is long-lived, API groups carry their own
		},
		router: r,
		logger: loggerClient,
	}
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the bound address once Start has listened, nil before.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens on the configured address and serves until Stop.
// A clean shutdown returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info("HTTP server listening", logger.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
