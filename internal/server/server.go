// Package server exposes the trend pipeline as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// Server is the archivepulse HTTP API server.
type Server struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	router  chi.Router
	version string
	started time.Time
}

// New creates a Server that runs every request against a clone of baseCfg.
func New(baseCfg *contract.Config, mgr contract.CacheManager, version string) *Server {
	s := &Server{
		baseCfg: baseCfg,
		mgr:     mgr,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/trend", s.handleTrend)
		r.Get("/summary", s.handleSummary)
		r.Get("/narrative", s.handleNarrative)
	})
	r.Handle("/metrics", telemetry.Handler())

	s.router = r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("🌐 Serving trend API on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
