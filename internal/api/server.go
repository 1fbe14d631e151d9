// Package api exposes the conversion pipeline over HTTP: image upload and
// conversion, generated-document download, layout preview rendering and a
// demo mode that works without an API key.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ShoheiSaito0429/slide-converter/internal/config"
)

// Analyzer produces raw layout JSON for a slide image. Implemented by
// vision.Client; abstracted so handlers can be tested without the network.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) ([]byte, error)
}

// AnalyzerFactory builds an analyzer for the API key a request resolved to.
type AnalyzerFactory func(apiKey string) Analyzer

// Server is the HTTP server for the slide converter.
type Server struct {
	router chi.Router
	store  *Store
	log    *slog.Logger
	cfg    config.Config

	// newAnalyzer builds a vision analyzer for the given API key.
	// Swappable in tests.
	newAnalyzer AnalyzerFactory
}

// NewServer creates and configures the HTTP server.
func NewServer(store *Store, newAnalyzer AnalyzerFactory, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:       store,
		newAnalyzer: newAnalyzer,
		log:         log,
		cfg:         cfg,
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
	r.Post("/convert", s.handleConvert)
	r.Get("/download/{name}", s.handleDownload)
	r.Post("/preview", s.handlePreview)
	r.Get("/demo/image", s.handleDemoImage)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
