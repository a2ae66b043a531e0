package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rekanalumni/outreach/common/logger"
)

// Drain window for in-flight admin operations on shutdown. A merge
// transaction or a full preview scan must be allowed to finish or roll
// back cleanly before the process exits.
const shutdownGrace = 30 * time.Second

// Server runs an HTTP handler until it fails or the process receives an
// interrupt, then drains in-flight requests before returning.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
	name       string
}

// New wraps a handler in a server listening on the given port
func New(name string, port int, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log:  log,
		name: name,
	}
}

// Start serves until the listener fails or SIGINT/SIGTERM arrives.
// Blocks; returns nil after a clean drain.
func (s *Server) Start() error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info(fmt.Sprintf("%s listening", s.name), "addr", s.httpServer.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		s.log.Info("shutdown signal received", "signal", sig.String())
		return s.drain()
	}
}

// drain stops accepting new requests and waits out in-flight ones,
// forcing the listener closed if the grace period runs out
func (s *Server) drain() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed", "error", err)
		if err := s.httpServer.Close(); err != nil {
			return fmt.Errorf("could not stop server: %w", err)
		}
	}

	s.log.Info("shutdown complete")
	return nil
}
