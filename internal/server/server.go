// Package server exposes the samples and engines over a JSON HTTP API.
//
// Routes:
//
//	GET  /healthz
//	GET  /version
//	GET  /samples
//	GET  /samples/{name}
//	GET  /samples/{name}/count?at=
//	GET  /samples/{name}/ideals?engine=&mode=&limit=&workers=
//	GET  /samples/{name}/plan?workers=
//	GET  /samples/{name}/bench?engine=&reps=&workers=
//	GET  /samples/{name}/svg?ideal=1,2,5&format=svg|dot
//	POST /trees/count
//	POST /trees/ideals?engine=&mode=&limit=&workers=
//
// Errors are answered as {"code": ..., "error": ...} with the status of
// their error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/treeideals/pkg/bench"
	"github.com/matzehuels/treeideals/pkg/cache"
	"github.com/matzehuels/treeideals/pkg/observability"
)

// Options configure a Server.
type Options struct {
	Logger *log.Logger
	// Store caches benchmark reports. Nil runs every benchmark.
	Store *bench.Store
	// Workers is the default worker count of the parallel engine.
	Workers int
	// MaxIdeals caps the ideals of one listing.
	MaxIdeals int
	// MaxReps caps the repetitions of one benchmark.
	MaxReps int
}

// Server is the HTTP API.
type Server struct {
	opts   Options
	router chi.Router
}

// maxBodyBytes bounds POSTed tree documents.
const maxBodyBytes = 1 << 20

// New builds a Server with its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Store == nil {
		opts.Store = bench.NewStore(cache.NewNullCache(), nil)
	}
	opts.Workers = max(1, opts.Workers)
	opts.MaxIdeals = max(1, opts.MaxIdeals)
	opts.MaxReps = max(1, opts.MaxReps)

	s := &Server{opts: opts}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/samples", func(r chi.Router) {
		r.Get("/", s.handleSamples)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.withSample(s.handleTree))
			r.Get("/count", s.withSample(s.handleCount))
			r.Get("/ideals", s.withSample(s.handleIdeals))
			r.Get("/plan", s.withSample(s.handlePlan))
			r.Get("/bench", s.withSample(s.handleBench))
			r.Get("/svg", s.withSample(s.handleSVG))
		})
	})
	r.Route("/trees", func(r chi.Router) {
		r.Post("/count", s.withBody(s.handleCount))
		r.Post("/ideals", s.withBody(s.handleIdeals))
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx ends, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.opts.Logger.Info("Listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports every request to the HTTP hooks. Responses carry the
// matched route pattern, requests the raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
	})
}
