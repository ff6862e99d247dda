// Package server exposes the quoteboard services over a JSON REST API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bobmcallan/quoteboard/internal/app"
	"github.com/bobmcallan/quoteboard/internal/common"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	idleTimeout       = 120 * time.Second
	// writeGrace lets a handler that hit its request deadline still write the 504
	writeGrace = 5 * time.Second
)

// Server owns the quoteboard HTTP listener.
type Server struct {
	app     *app.App
	handler http.Handler
	http    *http.Server
	logger  *common.Logger
}

// NewServer registers every API route behind the middleware chain.
func NewServer(a *app.App) *Server {
	mux := http.NewServeMux()
	s := &Server{app: a, logger: a.Logger}
	s.registerRoutes(mux)

	timeout := a.Config.Server.GetRequestTimeout()
	s.handler = chain(mux,
		recoverPanics(a.Logger),
		allowCORS,
		requestScope,
		withDeadline(timeout),
		accessLog(a.Logger),
	)

	s.http = &http.Server{
		Addr:              ListenAddr(a.Config.Server),
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      timeout + writeGrace,
		IdleTimeout:       idleTimeout,
	}
	return s
}

// ListenAddr joins the configured host and port; an empty host binds all interfaces.
func ListenAddr(cfg common.ServerConfig) string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// Handler returns the wrapped mux, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listener and serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.logger.Info().Str("addr", ln.Addr().String()).
		Dur("request_timeout", s.app.Config.Server.GetRequestTimeout()).
		Msg("REST API listening")

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
