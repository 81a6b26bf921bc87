// Package server exposes the solve pipeline over HTTP.
//
// Routes:
//
//	POST /v1/solve                 search a box collection, returns the solution and artifacts
//	GET  /v1/runs                  recent archived runs
//	GET  /v1/runs/{id}             one archived run
//	GET  /v1/runs/{id}/{format}    render an archived run (svg, png, pdf, dot, json)
//	GET  /healthz                  liveness and build information
//	GET  /metrics                  Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// HTTP status derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boxtower/pkg/pipeline"
)

const (
	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 1 << 20

	// DefaultRequestTimeout bounds a single request, search included.
	DefaultRequestTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxBoxes caps the collection size accepted by /v1/solve.
	// Zero selects pipeline.DefaultMaxBoxes.
	MaxBoxes int

	// Workers is passed to the evaluator. Zero selects GOMAXPROCS.
	Workers int

	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// Metrics receives the observability hooks and backs /metrics.
	// Nil creates a fresh registry.
	Metrics *Metrics

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	opts    Options
	logger  *log.Logger
	metrics *Metrics
	router  chi.Router
}

// New creates a server around runner and installs its metrics as the global
// observability hooks.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBoxes == 0 {
		opts.MaxBoxes = pipeline.DefaultMaxBoxes
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	opts.Metrics.Install()

	s := &Server{
		runner:  runner,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
		r.Post("/solve", s.handleSolve)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/{format}", s.handleRenderRun)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
