package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	maxHeaderBytes    = 1 << 20
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server owns the HTTP listener lifecycle for the node's local API.
type Server struct {
	httpServer *http.Server
}

// Run blocks serving HTTP on the given port. Accepts "8080" or ":8080".
func (s *Server) Run(port string, handler http.Handler) error {
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	s.httpServer = &http.Server{
		Addr:              port,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight
// requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
