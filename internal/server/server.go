// Package server exposes the udgraph pipeline over HTTP.
//
// Treebanks are posted as CoNLL-U request bodies; options travel in the
// query string:
//
//	POST /v1/fix        break basic cycles               skip_invalid, refresh
//	POST /v1/collapse   collapse empty nodes             separator, keep_ids, fix_cycles, skip_invalid, refresh
//	POST /v1/stats      corpus statistics                refresh
//	POST /v1/render     one sentence as SVG or DOT       sentence, enhanced, detailed, format, refresh
//	GET  /healthz       liveness
//	GET  /metrics       Prometheus metrics
//
// Errors are JSON objects carrying the error code, a message and the request
// id.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/udgraph/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds the size of a posted treebank.
const DefaultMaxBodyBytes = 32 << 20

// Config configures the service.
type Config struct {
	Addr string
	// MaxBodyBytes bounds request bodies; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Defaults are the pipeline options that query parameters override.
	Defaults pipeline.Options
	// Metrics receives service metrics; nil creates a private registry.
	Metrics *Metrics
}

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	cfg     Config
	metrics *Metrics
	router  chi.Router
}

// New builds the router. A nil logger uses log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		cfg:     cfg,
		metrics: cfg.Metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/fix", s.handleFix)
		r.Post("/collapse", s.handleCollapse)
		r.Post("/stats", s.handleStats)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	s.router = r
	return s
}

// Handler returns the service's root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
