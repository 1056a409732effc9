// Package webapi exposes the analysis pipeline over HTTP: analyses are
// started as sessions, progress streams over SSE, and merged results are
// fetched once a session completes.
package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kyhsueh/codegrade/core"
	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/internal/progress"
	"github.com/kyhsueh/codegrade/schema"
)

// Server timeout constants. WriteTimeout stays zero because SSE streams
// outlive any fixed write deadline.
const (
	serverReadTimeout = 30 * time.Second
	serverIdleTimeout = 120 * time.Second
)

// runState tracks one session's lifecycle on the server side.
type runState struct {
	Result *schema.AnalysisResult
	Err    error
	Done   bool
}

// Server routes analysis sessions over HTTP. One Server owns one progress
// registry; concurrent sessions are isolated by id.
type Server struct {
	cfg      *contract.Config
	registry *progress.Registry

	mu   sync.Mutex
	runs map[string]*runState
}

// NewServer creates a server around the base configuration. Per-request
// options override a clone of the base config, never the base itself.
func NewServer(cfg *contract.Config) *Server {
	return &Server{
		cfg:      cfg,
		registry: progress.NewRegistry(),
		runs:     make(map[string]*runState),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/progress/{id}", s.handleProgress)
	mux.HandleFunc("GET /api/result/{id}", s.handleResult)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the HTTP server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.ServeAddr,
		Handler:     s.Handler(),
		ReadTimeout: serverReadTimeout,
		IdleTimeout: serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// analyzeRequest is the body accepted by POST /api/analyze. Unset fields
// fall back to the server's base configuration.
type analyzeRequest struct {
	ProjectPath string   `json:"project_path"`
	Authors     []string `json:"authors,omitempty"`
	StartCommit string   `json:"start_commit,omitempty"`
	EndCommit   string   `json:"end_commit,omitempty"`
	MaxCommits  int      `json:"max_commits,omitempty"`
	ResultLimit int      `json:"result_limit,omitempty"`
}

// analyzeResponse returns the session handle for progress and result polling.
type analyzeResponse struct {
	SessionID string `json:"session_id"`
}

// handleAnalyze starts a new analysis session and returns its id. The
// pipeline runs in the background; observers follow it via the progress
// stream.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	cfg := s.cfg.Clone()
	if req.ProjectPath != "" {
		cfg.ProjectPath = req.ProjectPath
	}
	if len(req.Authors) > 0 {
		cfg.FilterAuthors = req.Authors
	}
	if req.StartCommit != "" {
		cfg.StartCommit = req.StartCommit
	}
	if req.EndCommit != "" {
		cfg.EndCommit = req.EndCommit
	}
	if req.MaxCommits > 0 {
		cfg.MaxCommits = req.MaxCommits
	}
	if req.ResultLimit > 0 {
		cfg.ResultLimit = req.ResultLimit
	}
	if cfg.ProjectPath == "" {
		writeError(w, http.StatusBadRequest, "project_path is required")
		return
	}

	sessionID := uuid.NewString()
	s.mu.Lock()
	s.runs[sessionID] = &runState{}
	s.mu.Unlock()

	// Open before responding so an immediate progress request never races
	// the pipeline's own Open.
	s.registry.Open(sessionID)

	go s.runSession(sessionID, cfg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(analyzeResponse{SessionID: sessionID})
}

// runSession executes the pipeline for one session and records its outcome.
func (s *Server) runSession(sessionID string, cfg *contract.Config) {
	p := core.NewPipeline(cfg)
	p.Progress = s.registry
	defer func() {
		if p.History != nil {
			_ = p.History.Close()
		}
	}()

	result, err := p.Run(context.Background(), sessionID, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.runs[sessionID]
	if state == nil {
		return
	}
	state.Result = result
	state.Err = err
	state.Done = true
}

// handleProgress streams the session's progress events as SSE. Buffered
// events replay first, then live events follow until a terminal stage.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	s.mu.Lock()
	_, known := s.runs[sessionID]
	s.mu.Unlock()
	if !known {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for ev := range s.registry.Subscribe(r.Context(), sessionID) {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}

// handleResult returns the merged analysis once a session completes.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	s.mu.Lock()
	state, known := s.runs[sessionID]
	s.mu.Unlock()

	switch {
	case !known:
		writeError(w, http.StatusNotFound, "unknown session")
	case !state.Done:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	case state.Err != nil:
		writeError(w, http.StatusInternalServerError, state.Err.Error())
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(state.Result)
	}
}

// handleHealth reports liveness and the number of open sessions.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":        "ok",
		"open_sessions": s.registry.Len(),
	})
}

// writeError sends a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
