package xrserve

import (
	"context"
	"crypto/tls"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
)

// TLSConfig points at PEM-encoded key material on disk.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Config describes one server instance. Port 0 binds an ephemeral
// port; Dir "" serves the current directory. A nil TLS serves plain
// HTTP.
type Config struct {
	Port int
	Dir  string
	TLS  *TLSConfig
}

// Server binds one listener on all interfaces and serves a directory
// tree until stopped. No read/write timeouts are set; a stalled client
// can hold a handler, which is fine at local-development scope.
type Server struct {
	cfg      Config
	hs       *http.Server
	listener net.Listener
}

func New(cfg Config) *Server {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	fsys := os.DirFS(cfg.Dir).(fs.StatFS)
	return &Server{
		cfg: cfg,
		hs:  &http.Server{Handler: NewHandler(fsys)},
	}
}

// Listen binds the socket and, when TLS is configured, wraps it so
// every accepted connection handshakes before the handler runs. A
// failed handshake drops only that connection.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}
	if s.cfg.TLS != nil {
		cert, err := tls.LoadX509KeyPair(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		if err != nil {
			listener.Close()
			return fmt.Errorf("load key pair: %w", err)
		}
		listener = tls.NewListener(listener, &tls.Config{
			Certificates: []tls.Certificate{cert},
		})
	}
	s.listener = listener
	slog.Info("listening", "addr", listener.Addr().String(), "dir", s.cfg.Dir, "tls", s.cfg.TLS != nil)
	return nil
}

// Port returns the actually bound port. Valid after Listen.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve blocks on the accept loop until Stop is called, then returns
// nil. Any other listener error is returned as-is.
func (s *Server) Serve() error {
	if err := s.hs.Serve(s.listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop makes Serve return: the listener stops accepting and in-flight
// responses drain until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("shutting down server")
	return s.hs.Shutdown(ctx)
}
