package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mitsypos/internal/costing"
	"mitsypos/internal/handlers"
	applog "mitsypos/internal/log"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr   string
	Engine *costing.Engine
}

// Server wraps an http.Server serving the point of sale API.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server", "addr", cfg.Addr)

	if cfg.Engine == nil {
		return nil, errors.New("server requires a costing engine")
	}

	api := handlers.New(cfg.Engine)
	handler := withRequestID(newRouter(api))

	applog.Debug(context.Background(), "http handler chain prepared")

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Debug(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
