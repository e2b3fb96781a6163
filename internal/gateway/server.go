package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dohr-michael/capigen/internal/builds"
	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/container"
	"github.com/dohr-michael/capigen/internal/secrets"
)

const maxBodyBytes = 1 << 20

// Server is the capigen HTTP API.
type Server struct {
	httpServer *http.Server
	reloader   *config.Reloader
	builds     *builds.Store
	keyPath    string
	now        func() time.Time
}

// NewServer creates the API server. reloader provides the active config;
// keyPath is the age key used for encrypted access tokens.
func NewServer(reloader *config.Reloader, store *builds.Store, keyPath, host string, port int) *Server {
	s := &Server{
		reloader: reloader,
		builds:   store,
		keyPath:  keyPath,
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/config", s.handleConfig)
	r.Post("/api/validate", s.handleValidate)
	r.Post("/api/reload", s.handleReload)

	r.Route("/api/containers", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Get("/{kind}", s.handleContainer)
	})

	r.Route("/api/builds", func(r chi.Router) {
		r.Get("/", s.handleBuilds)
		r.Get("/{id}", s.handleBuild)
		r.Delete("/{id}", s.handleDeleteBuild)
		r.Get("/{id}/{kind}", s.handleBuildDocument)
	})

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("capigen gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"standard":   container.StandardEvents,
		"configured": container.EventMapping(s.reloader.Current().Events),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reloader.Current().Masked())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	prev := s.reloader.Current()
	if err := s.reloader.Reload(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalid) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}
	next := s.reloader.Current()
	added, removed := config.EventChanges(prev, next)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "reloaded",
		"events":  next.Events,
		"added":   nonNilStrings(added),
		"removed": nonNilStrings(removed),
	})
}

// requestConfig decodes the request body on top of the defaults, or copies the
// active config when the body is empty.
func (s *Server) requestConfig(r *http.Request) (*config.Config, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		cfg := *s.reloader.Current()
		cfg.Events = append([]string(nil), cfg.Events...)
		return &cfg, nil
	}
	return config.Parse(data, config.FormatJSON)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	problems := config.Problems(cfg)
	writeJSON(w, http.StatusOK, map[string]any{"valid": len(problems) == 0, "problems": nonNilStrings(problems)})
}

// build resolves secrets, validates and assembles both documents.
func (s *Server) build(cfg *config.Config) (*container.Result, int, error) {
	if err := secrets.ResolveConfig(cfg, s.keyPath); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	res := container.Build(cfg, container.Options{Now: s.now})
	if err := res.Resolve(); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return res, http.StatusOK, nil
}

type generateResponse struct {
	BuildID string `json:"build_id,omitempty"`
	*container.Result
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, status, err := s.build(cfg)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			writeJSON(w, status, map[string]any{"error": config.ErrInvalid.Error(), "problems": config.Problems(cfg)})
			return
		}
		writeError(w, status, err)
		return
	}

	resp := generateResponse{Result: res}
	if record, _ := strconv.ParseBool(r.URL.Query().Get("record")); record {
		b, err := s.builds.Record(res, cfg, "api")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.BuildID = b.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContainer(w http.ResponseWriter, r *http.Request) {
	kind, err := container.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	cfg, err := s.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, status, err := s.build(cfg)
	if err != nil {
		writeError(w, status, err)
		return
	}
	data, err := res.Document(kind).MarshalIndent()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeDocument(w, kind, data)
}

func writeDocument(w http.ResponseWriter, kind container.Kind, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.FileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	list, err := s.builds.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit >= 0 && limit < len(list) {
		list = list[:limit]
	}
	if list == nil {
		list = []*builds.Build{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	b, err := s.builds.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, buildStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	if err := s.builds.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, buildStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBuildDocument(w http.ResponseWriter, r *http.Request) {
	kind, err := container.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	data, err := s.builds.Document(chi.URLParam(r, "id"), kind)
	if err != nil {
		writeError(w, buildStatus(err), err)
		return
	}
	writeDocument(w, kind, data)
}

func buildStatus(err error) int {
	if builds.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
