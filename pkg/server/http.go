package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arthur-debert/rulebook/internal/version"
	"github.com/arthur-debert/rulebook/pkg/dispatcher"
	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/rs/zerolog"
)

// MaxBodyBytes caps tool call request bodies
const MaxBodyBytes = 4 << 20

// ShutdownTimeout bounds graceful shutdown of the HTTP server
const ShutdownTimeout = 5 * time.Second

// HTTPServer serves the dispatcher as a JSON API
type HTTPServer struct {
	dispatcher *dispatcher.Dispatcher
	logger     zerolog.Logger
}

// NewHTTP creates an HTTP transport
func NewHTTP(d *dispatcher.Dispatcher) *HTTPServer {
	return &HTTPServer{
		dispatcher: d,
		logger:     logging.GetLogger("server.http"),
	}
}

// Routes returns the API handler
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /v1/resources", s.handleResource)
	mux.HandleFunc("GET /v1/resources/list", s.handleResourceList)
	mux.HandleFunc("GET /v1/rules/types", s.resource(func(*http.Request) string {
		return dispatcher.SchemeRules + "types"
	}))
	mux.HandleFunc("GET /v1/rules/{category}", s.resource(func(r *http.Request) string {
		return dispatcher.SchemeRules + url.PathEscape(r.PathValue("category"))
	}))
	mux.HandleFunc("GET /v1/rules/{category}/{name}", s.resource(func(r *http.Request) string {
		return dispatcher.SchemeRules + url.PathEscape(r.PathValue("category")) + "/" + url.PathEscape(r.PathValue("name"))
	}))
	mux.HandleFunc("GET /v1/templates", s.resource(func(*http.Request) string {
		return dispatcher.SchemeTemplates + "list"
	}))
	mux.HandleFunc("GET /v1/templates/{name...}", s.resource(func(r *http.Request) string {
		return dispatcher.SchemeTemplates + escapeSegments(r.PathValue("name"))
	}))

	mux.HandleFunc("GET /v1/tools", s.handleToolList)
	mux.HandleFunc("POST /v1/tools/{tool}", s.handleTool)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, errors.Newf(errors.ErrNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})

	return s.logRequests(mux)
}

// escapeSegments re-escapes an already decoded path value for use in a
// resource URI, keeping its slashes.
func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *HTTPServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, errors.ErrInternal, "HTTP server failed")
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "HTTP server shutdown failed")
		}
		return nil
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": version.Version,
	})
}

func (s *HTTPServer) handleResource(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		s.fail(w, errors.New(errors.ErrInvalidInput, "missing uri parameter"))
		return
	}
	s.read(w, uri)
}

func (s *HTTPServer) resource(uri func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.read(w, uri(r))
	}
}

func (s *HTTPServer) read(w http.ResponseWriter, uri string) {
	result, err := s.dispatcher.ReadResource(uri)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleResourceList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dispatcher.Resources())
}

func (s *HTTPServer) handleToolList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dispatcher.Tools())
}

func (s *HTTPServer) handleTool(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		s.fail(w, errors.Wrap(err, errors.ErrInvalidInput, "failed to read request body"))
		return
	}
	if len(body) > MaxBodyBytes {
		s.fail(w, errors.Newf(errors.ErrInvalidInput, "request body exceeds %d bytes", MaxBodyBytes))
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		s.fail(w, errors.New(errors.ErrInvalidInput, "request body is not valid JSON"))
		return
	}

	result, err := s.dispatcher.CallTool(r.PathValue("tool"), body)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fail writes a protocol error with the status for its code
func (s *HTTPServer) fail(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetErrorCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]any{
		"error": errors.GetMessage(err),
		"code":  string(errors.GetErrorCode(err)),
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidInput:
		return http.StatusBadRequest
	case errors.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
