// Package server exposes the game over HTTP: a JSON API for playing rounds,
// a websocket stream of views and the Prometheus metrics endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/metrics"
	"github.com/ayusman/rochambeau/internal/store"
)

// Controller is the part of the app the HTTP API drives. *app.App implements it.
type Controller interface {
	StartRound() (app.View, error)
	Acknowledge() (app.View, bool)
	View() app.View
	Suspend() error
	Resume() error
	History(limit int) ([]*store.Round, error)
	Round(id string) (*store.Round, error)
	Stats() (store.Stats, error)
}

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Controller Controller
	// Hub streams views on /api/events. Nil disables the endpoint.
	Hub *Hub
}

// Server is the HTTP front end of the game.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
	http   *http.Server
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		if s.config.Controller != nil {
			r.Get("/state", s.handleState)
			r.Route("/round", func(r chi.Router) {
				r.Post("/", s.handleStartRound)
				r.Post("/ack", s.handleAcknowledge)
			})
			r.Route("/rounds", func(r chi.Router) {
				r.Get("/", s.handleListRounds)
				r.Get("/{id}", s.handleGetRound)
			})
			r.Get("/stats", s.handleStats)
			r.Post("/source/suspend", s.handleSuspend)
			r.Post("/source/resume", s.handleResume)
		}

		if s.config.Hub != nil {
			r.Get("/events", s.config.Hub.ServeHTTP)
		}
	})

	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
