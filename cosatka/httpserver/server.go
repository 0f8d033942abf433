// Package httpserver serves the liveness routes and the metrics endpoint.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

type Server struct {
	addr    string
	version string
	games   []string
	checks  map[string]HealthFunc
	metrics http.Handler
	srv     *http.Server
}

func New(addr, version string, games []string, metrics http.Handler) *Server {
	return &Server{
		addr:    addr,
		version: version,
		games:   games,
		checks:  make(map[string]HealthFunc),
		metrics: metrics,
	}
}

// AddCheck registers a dependency probed by /healthz.
func (s *Server) AddCheck(name string, fn HealthFunc) {
	s.checks[name] = fn
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintf(w, "Cosatka bot is running (%s)\n", s.version)
	})
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Games   []string          `json:"games"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Version: s.version,
		Games:   s.games,
		Checks:  make(map[string]string, len(s.checks)),
	}
	code := http.StatusOK
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening",
			slog.String("type", "sys"),
			slog.String("addr", s.addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}
