// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedsim

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noldarim/pulse/internal/config"
	"github.com/noldarim/pulse/internal/logger"
	"github.com/noldarim/pulse/internal/stream"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetFeedsimLogger()
		log = &l
	})
	return log
}

// Server is the simulator's REST + WebSocket server.
type Server struct {
	httpServer *http.Server
	generator  *Generator
	registry   *Registry
}

// New wires up the simulator: history buffer, event generator, WebSocket
// registry and REST routes. It does not start listening until Run is
// called.
func New(cfg *config.FeedsimConfig, scenario Scenario) *Server {
	history := stream.NewStore(stream.DefaultRetentionLimit)
	registry := NewRegistry()
	generator := NewGenerator(scenario, history, registry, time.Now().UnixNano())
	handlers := NewHandlers(history)

	r := chi.NewRouter()
	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(MaxBodySize(1 << 20)) // 1 MB default
	r.Use(CORS(cfg.AllowedOrigins))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/activity/history", handlers.GetHistory)
		r.Get("/metrics/summary", handlers.GetMetrics)
	})
	r.Get("/ws", HandleWebSocket(registry, cfg.AllowedOrigins))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		generator: generator,
		registry:  registry,
	}
}

// Run starts the generator goroutine and the HTTP server. Blocks until the
// server is shut down.
func (s *Server) Run(ctx context.Context) error {
	go s.generator.Run(ctx)

	getLog().Info().Str("addr", s.httpServer.Addr).Msg("Feed simulator listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
