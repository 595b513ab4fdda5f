// Package server implements the paneforge preview server.
//
// The server rebuilds the configured document on every request, so edits to
// the template, layout, or snippets show up on refresh. Unchanged inputs are
// served from the document cache. Build failures return the error-page
// fallback with a 500 status instead of a broken document.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/paneforge/paneforge/pkg/pipeline"
)

// Server serves the compiled document over HTTP.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
}

// New creates a preview server. The output path is cleared from the build
// options: serving should not also rewrite files on disk.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	opts.Output = ""
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, opts: opts, logger: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleDocument)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("preview server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleDocument compiles and serves the document.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	reqID, _ := r.Context().Value(requestIDKey).(string)

	result, err := s.runner.Build(r.Context(), s.opts)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		s.logger.Error("build failed", "request", reqID, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(pipeline.ErrorPage(err)))
		return
	}

	s.logger.Debug("served document",
		"request", reqID,
		"build", result.ID,
		"panes", result.Panes,
		"cached", result.CacheInfo.DocumentHit)
	_, _ = w.Write([]byte(result.Document))
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// requestIDKey is the context key carrying the per-request id.
const requestIDKey ctxKey = 0

// requestID attaches a UUID to each request's context and echoes it in the
// X-Request-Id response header.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}
