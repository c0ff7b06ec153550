package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mindweave/mindweave-server/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer serves the JSON API.
type HTTPServer struct {
	server *http.Server
	addr   string
}

// NewHTTPServer creates an HTTPServer. Write timeouts are left to per-route middleware
// because the session event stream stays open indefinitely.
func NewHTTPServer(handler http.Handler, addr string) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		addr: addr,
	}
}

// Start blocks serving on a listener from securityLayer. A graceful Stop makes it return nil.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx expires, then closes remaining connections.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		_ = s.server.Close()
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

func (s *HTTPServer) Address() string {
	return s.addr
}
