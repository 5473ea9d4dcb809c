// Package server exposes the canvas core over HTTP for `moodboard serve`.
//
// Every endpoint is stateless: canvases travel in request bodies in the
// persisted format, so browser front-ends keep their own state and use the
// server for classification, link previews, validation and previews.
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
	"github.com/go-chi/cors"

	"github.com/matzehuels/moodboard/pkg/classify"
	"github.com/matzehuels/moodboard/pkg/metadata"
	"github.com/matzehuels/moodboard/pkg/render"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 10 << 20

const (
	shutdownTimeout = 10 * time.Second
	requestTimeout  = 30 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	meta       *metadata.Service
	classifier classify.Classifier
	renderer   *render.Renderer
	origins    []string
	logger     *log.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithClassifier sets the classifier used by /v1/classify.
func WithClassifier(c classify.Classifier) Option {
	return func(s *Server) { s.classifier = c }
}

// WithRenderer sets the preview renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) { s.renderer = r }
}

// WithCORSOrigins sets the allowed browser origins. "*" allows any.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a server that resolves link previews with meta.
func New(meta *metadata.Service, opts ...Option) *Server {
	s := &Server{
		meta:     meta,
		renderer: render.NewRenderer(nil, nil),
		origins:  []string{"*"},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", s.classify)
		r.Get("/metadata", s.metadata)
		r.Post("/markdown", s.markdown)
		r.Post("/render/dot", s.renderDOT)
		r.Route("/canvas", func(r chi.Router) {
			r.Post("/validate", s.validateCanvas)
			r.Post("/normalize", s.normalizeCanvas)
			r.Get("/welcome", s.welcome)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
