// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package web exposes the game backend's HTTP surface.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/samber/oops"
)

// Server serves the account and game endpoints.
type Server struct {
	addr       string
	accounts   AccountService
	game       GameService
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, accounts AccountService, gameSvc GameService, logger *slog.Logger) (*Server, error) {
	if accounts == nil {
		return nil, oops.Errorf("account service is required")
	}
	if gameSvc == nil {
		return nil, oops.Errorf("game service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		accounts: accounts,
		game:     gameSvc,
		logger:   logger,
	}, nil
}

// Router builds the chi router. Exposed for handler tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// The game client is served from a different origin, like the previous
	// deployment: allow cross-origin calls.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/register", s.handleRegister)
	r.Get("/confirm", s.handleConfirm)
	r.Post("/login", s.handleLogin)
	r.Get("/ping", s.handlePing)

	r.Route("/api", func(r chi.Router) {
		r.Post("/character", s.handleSaveCharacter)
		r.Get("/character", s.handleLoadCharacter)
		r.Post("/chat", s.handlePostChat)
		r.Get("/chat", s.handleGetChat)
	})

	return r
}

// Start begins serving. It returns an error channel that receives any error
// from the HTTP server after startup; the channel closes on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the bound listen address, or empty when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
