// Package server exposes the review workspace over HTTP.
//
// All API routes live under /api/v1 and speak JSON. Errors carry the
// error code from pkg/errors:
//
//	{"error": {"code": "DOCUMENT_NOT_FOUND", "message": "document \"x\""}}
//
// The relationship graph is rendered by GET /api/v1/graph.{format}; the
// layout it used is remembered per graph content and viewport so that GET /api/v1/graph/hit
// resolves pointer positions against the picture the client is showing.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/doctriage/pkg/ingest"
	"github.com/matzehuels/doctriage/pkg/pipeline"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// DefaultMaxUpload bounds archive uploads when Options.MaxUpload is zero.
const DefaultMaxUpload = 256 << 20

// Options configures a Server.
type Options struct {
	Store    storage.Store
	Runner   *pipeline.Runner
	Ingester *ingest.Ingester
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	Logger  *log.Logger
	// MaxUpload is the largest accepted archive in bytes.
	MaxUpload int64
	// Defaults seed graph requests before query parameters apply.
	Defaults pipeline.Options
}

// Server handles API requests.
type Server struct {
	store     storage.Store
	runner    *pipeline.Runner
	ingester  *ingest.Ingester
	metrics   http.Handler
	logger    *log.Logger
	maxUpload int64
	defaults  pipeline.Options

	mu      sync.Mutex
	layouts map[viewKey]layout.Layout
	order   []viewKey
}

// New creates a server. Store, Runner and Ingester are required.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = DefaultMaxUpload
	}
	return &Server{
		store:     opts.Store,
		runner:    opts.Runner,
		ingester:  opts.Ingester,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		maxUpload: opts.MaxUpload,
		defaults:  opts.Defaults,
		layouts:   make(map[viewKey]layout.Layout),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(instrument)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.forgetOnWrite)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.listDocuments)
			r.Post("/", s.createDocument)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getDocument)
				r.Patch("/", s.updateDocument)
				r.Delete("/", s.deleteDocument)
				r.Post("/tags", s.addTag)
				r.Delete("/tags/{tag}", s.removeTag)
				r.Post("/annotations", s.addAnnotation)
				r.Get("/relationships", s.documentRelationships)
			})
		})

		r.Route("/relationships", func(r chi.Router) {
			r.Get("/", s.listRelationships)
			r.Post("/", s.upsertRelationship)
			r.Delete("/", s.deleteRelationship)
			r.Post("/relate", s.relate)
		})

		r.Route("/archives", func(r chi.Router) {
			r.Get("/", s.listArchives)
			r.Post("/", s.uploadArchive)
			r.Delete("/{name}", s.clearArchive)
		})

		r.Get("/graph.{format}", s.renderGraph)
		r.Get("/graph/hit", s.hitTest)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
