package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/jcdickinson/pywtf/internal/browse"
	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/rpc"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	svc        *browse.Service
	addr       string
	httpServer *http.Server
	listener   net.Listener
}

func New(svc *browse.Service, addr string) *Server {
	return &Server{svc: svc, addr: addr}
}

// Handler returns the API routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_index/{file}", s.handleIndexFile)
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/projects/{project}", s.handleProject)
	mux.HandleFunc("GET /api/projects/{project}/modules/{module}", s.handleModule)
	mux.HandleFunc("GET /api/projects/{project}/modules/{module}/symbols/{symbol}", s.handleSymbol)
	mux.HandleFunc("GET /api/projects/{project}/search", s.handleProjectSearch)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/cache/clear", s.handleClearCache)
	return withRequestID(mux)
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	slog.InfoContext(ctx, "listening", "addr", listener.Addr().String())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Addr reports the bound address once Start is listening.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
			errs = append(errs, err)
		}
	}
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Error("listener close error", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, reqID)

		ctx := slogctx.Append(r.Context(), "request_id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.InfoContext(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleIndexFile(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if file == ".metadata" {
		meta, err := s.svc.IndexMetadata(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, meta)
		return
	}

	name, ok := strings.CutSuffix(file, ".json")
	if !ok || name == "" {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no index file %s", file))
		return
	}
	data, err := s.svc.Raw(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Projects(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Project(r.Context(), r.PathValue("project"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Module(r.Context(), r.PathValue("project"), r.PathValue("module"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Symbol(r.Context(), r.PathValue("project"), r.PathValue("module"), r.PathValue("symbol"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProjectSearch(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, r.PathValue("project"))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, r.URL.Query().Get("project"))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, project string) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	resp, err := s.svc.Search(r.Context(), project, q.Get("q"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearCaches()
	writeJSON(w, http.StatusOK, rpc.ClearCacheResponse{Status: "ok"})
}

// fail maps service errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case browse.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, docs.ErrMissingName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled):
		slog.DebugContext(r.Context(), "request cancelled", "error", err)
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, rpc.ErrorResponse{Error: msg})
}
