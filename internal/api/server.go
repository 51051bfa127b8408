// Package api exposes the docdex HTTP interface: search, reindex,
// and stats on top of the query engine.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhollis/docdex/internal/index"
	"github.com/mhollis/docdex/internal/search"
)

// RebuildFunc rebuilds the index and installs the fresh snapshot.
type RebuildFunc func(ctx context.Context) (*index.Report, error)

// Options configure the API server.
type Options struct {
	// MaxResults is the default and upper bound for the limit query
	// parameter.
	MaxResults int

	// ExcerptLines is how many body lines each result excerpt
	// carries.
	ExcerptLines int
}

// Server is the docdex HTTP API server.
type Server struct {
	router  chi.Router
	engine  *search.Engine
	rebuild RebuildFunc
	opts    Options
	log     *slog.Logger

	// reindexMu serializes rebuild requests.
	reindexMu sync.Mutex
}

// NewServer creates and configures the HTTP server.
func NewServer(engine *search.Engine, rebuild RebuildFunc, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = search.DefaultMaxResults
	}
	s := &Server{
		engine:  engine,
		rebuild: rebuild,
		opts:    opts,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/search", s.handleSearch)
	r.Post("/api/reindex", s.handleReindex)
	r.Get("/api/stats", s.handleStats)

	s.router = r
}
