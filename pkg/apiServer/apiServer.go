// Package apiServer is the HTTP boundary of veilbox. It parses requests,
// dispatches to the pipeline suite, persists produced artifacts and maps the
// core error taxonomy onto stable status codes and user-facing messages.
package apiServer

import (
	"log/slog"
	"net/http"

	"github.com/veilbox/veilbox/internal/artifactStore"
	"github.com/veilbox/veilbox/pkg/chaosCipher"
	"github.com/veilbox/veilbox/pkg/pipeline"
	"github.com/veilbox/veilbox/pkg/workerPool"
)

type Server struct {
	mux             *http.ServeMux
	suite           *pipeline.Suite
	store           *artifactStore.Store
	pool            *workerPool.Pool
	log             *slog.Logger
	defaultChaosKey float64
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

func WithPool(pool *workerPool.Pool) Option {
	return func(s *Server) {
		if pool != nil {
			s.pool = pool
		}
	}
}

// WithDefaultChaosKey overrides the logistic-map parameter used when a chaos
// request carries no key.
func WithDefaultChaosKey(key float64) Option {
	return func(s *Server) {
		if key != 0 {
			s.defaultChaosKey = key
		}
	}
}

func New(store *artifactStore.Store, opts ...Option) *Server {
	s := &Server{
		mux:             http.NewServeMux(),
		store:           store,
		log:             slog.Default(),
		defaultChaosKey: chaosCipher.DefaultKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.pool == nil {
		s.pool = workerPool.New(workerPool.Config{})
	}
	s.suite = pipeline.NewSuite(pipeline.WithLogger(s.log))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /encrypt", s.handleEncrypt)
	s.mux.HandleFunc("POST /decrypt", s.handleDecrypt)
	s.mux.HandleFunc("POST /encrypt/bulk", s.handleBulkEncrypt)
	s.mux.HandleFunc("GET /artifacts/{kind}", s.handleListArtifacts)
	s.mux.HandleFunc("GET /artifacts/{kind}/{name}", s.handleDownloadArtifact)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	} else {
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	w.Header().Set("Access-Control-Max-Age", "86400")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.mux.ServeHTTP(w, r)
}
