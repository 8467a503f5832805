// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Options configures a Server.
type Options struct {
	// MaxBodyBytes caps request bodies; requests over the cap get 413.
	MaxBodyBytes int64
	// Workers bounds per-request batch parallelism; 0 means GOMAXPROCS.
	Workers int
	Logger  logrus.FieldLogger
}

// Server is the HTTP JSON API over the quantile engine.
type Server struct {
	router   *mux.Router
	log      logrus.FieldLogger
	registry *prometheus.Registry
	metrics  *metrics
	maxBody  int64
	workers  int
}

// New builds a Server with its routes and a private metrics registry.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		router:   mux.NewRouter(),
		log:      opts.Logger,
		registry: reg,
		metrics:  newMetrics(reg),
		maxBody:  opts.MaxBodyBytes,
		workers:  opts.Workers,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.instrument)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet).Name("healthz")
	s.router.HandleFunc("/api/methods", s.handleMethods).Methods(http.MethodGet).Name("methods")
	s.router.HandleFunc("/api/quantile", s.handleQuantile).Methods(http.MethodPost).Name("quantile")
	s.router.HandleFunc("/api/batch", s.handleBatch).Methods(http.MethodPost).Name("batch")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet).Name("metrics")
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Registry exposes the metrics registry, mainly for tests.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}
