// Package api exposes the dashboard's HTTP surface: account signup/login,
// the trade journal, the position calculator, analytics and CSV export.
package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Server wraps the HTTP server around the API handler.
type Server struct {
	server  *http.Server
	handler *Handler
	logger  *zap.Logger
}

// NewServer creates a new Server listening on the given port.
func NewServer(port int, handler *Handler, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	handler.Register(mux)

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		handler: handler,
		logger:  logger.Named("api-server"),
	}
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
