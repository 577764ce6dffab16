// Package api exposes the latest fetch-classify cycle over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/clacroix/ottawair/internal/snapshot"
)

// Server serves the read-only JSON API over the snapshot holder.
type Server struct {
	holder *snapshot.Holder
	log    zerolog.Logger
	port   string
}

// NewServer creates a server for the given holder.
func NewServer(holder *snapshot.Holder, log zerolog.Logger, port string) *Server {
	return &Server{holder: holder, log: log, port: port}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(120, time.Minute))
		r.Get("/api/v1/assessment", s.handleAssessment)
		r.Get("/api/v1/current", s.handleCurrent)
		r.Get("/api/v1/trend", s.handleTrend)
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("server shutdown")
		}
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
