// Package monitor provides the HTTP monitoring server.
package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yndnr/ckptkit-go/internal/telemetry/logger"
)

// Server is the monitoring HTTP server.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// New creates a monitoring server listening on addr.
func New(addr string, handler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.With("component", "monitor"),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the server and blocks until Shutdown. A
// server closed by Shutdown returns nil, not ErrServerClosed.
func (s *Server) ListenAndServe() error {
	s.log.Info("monitor server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("monitor server shutting down")
	return s.httpServer.Shutdown(ctx)
}
