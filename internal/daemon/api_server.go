package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"hardsub/internal/api"
	"hardsub/internal/burn"
	"hardsub/internal/config"
	"hardsub/internal/logging"
	"hardsub/internal/queue"
	"hardsub/internal/render"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/jobs", srv.handleJobs)
	mux.HandleFunc("/api/jobs/", srv.handleJob)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}
	status := s.daemon.Status()
	deps := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		deps[i] = api.DependencyStatus{
			Name:      dep.Name,
			Command:   dep.Command,
			Available: dep.Available,
			Detail:    dep.Detail,
		}
	}
	counts := map[string]int{}
	if health, err := s.daemon.store.Health(r.Context()); err == nil {
		counts[string(queue.StatusQueued)] = health.Queued
		counts[string(queue.StatusRunning)] = health.Running
		counts[string(queue.StatusSucceeded)] = health.Succeeded
		counts[string(queue.StatusFailed)] = health.Failed
		counts[string(queue.StatusTimedOut)] = health.TimedOut
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{
		Running:      status.Running,
		Ready:        status.Ready,
		FontsWarmed:  status.FontsWarmed,
		Workers:      status.Workers,
		ScriptTags:   status.ScriptTags,
		Counts:       counts,
		Dependencies: deps,
		JobDBPath:    status.JobDBPath,
		LockFilePath: status.LockFilePath,
	})
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r)
	case http.MethodGet:
		s.handleList(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *apiServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "", "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.VideoPath) == "" || strings.TrimSpace(req.SubtitlePath) == "" {
		s.writeError(w, http.StatusBadRequest, "", "videoPath and subtitlePath are required")
		return
	}

	handle, err := s.daemon.scheduler.Submit(r.Context(), burn.Request{
		VideoPath:    req.VideoPath,
		SubtitlePath: req.SubtitlePath,
		ScriptTag:    req.ScriptTag,
		Style: render.StyleOptions{
			FontSize:  req.FontSize,
			Alignment: req.Alignment,
			MarginV:   req.MarginV,
		},
	})
	if err != nil {
		kind := burn.KindOf(err)
		s.writeError(w, statusForKind(kind), string(kind), err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, api.SubmitResponse{ID: string(handle)})
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	var statuses []queue.Status
	for _, value := range r.URL.Query()["status"] {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		status, ok := queue.ParseStatus(trimmed)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "", "unknown status "+trimmed)
			return
		}
		statuses = append(statuses, status)
	}

	jobs, err := s.daemon.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.JobListResponse{Jobs: api.FromJobs(jobs)})
}

func (s *apiServer) handleJob(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "", "job not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, err := s.daemon.store.GetByID(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "", err.Error())
			return
		}
		if job == nil {
			s.writeError(w, http.StatusNotFound, "", "job not found")
			return
		}
		s.writeJSON(w, http.StatusOK, api.JobResponse{Job: api.FromJob(job)})
	case http.MethodDelete:
		err := s.daemon.scheduler.Cancel(burn.Handle(id))
		if errors.Is(err, burn.ErrUnknownJob) {
			s.writeError(w, http.StatusNotFound, "", "job not found")
			return
		}
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "", err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

// statusForKind maps submission error kinds onto HTTP statuses. Backpressure
// and readiness get dedicated codes so clients can retry; validation
// failures are final.
func statusForKind(kind burn.Kind) int {
	switch kind {
	case burn.KindOverloaded:
		return http.StatusTooManyRequests
	case burn.KindNotReady:
		return http.StatusServiceUnavailable
	case burn.KindMalformedSubtitle, burn.KindEmptyTrack, burn.KindFontNotFound, burn.KindCorruptInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Kind: kind, Error: message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String("component", "api-server"))
	}
	return logging.NewNop()
}
