// Package server exposes the screening pipeline over HTTP for the dashboard.
// Screenings run asynchronously: POST returns a task id immediately and
// clients poll the run until it completes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/monitoring"
	"github.com/sells-group/diligence-cli/internal/pipeline"
	"github.com/sells-group/diligence-cli/internal/store"
)

// Server handles the dashboard API.
type Server struct {
	store     store.Store
	screener  *pipeline.Screener
	collector *monitoring.Collector
	lookback  int

	// baseCtx parents the async screening goroutines so they survive the
	// originating request but stop on server shutdown.
	baseCtx context.Context
}

// New creates a dashboard API server.
func New(ctx context.Context, st store.Store, screener *pipeline.Screener, collector *monitoring.Collector, lookbackHours int) *Server {
	if lookbackHours <= 0 {
		lookbackHours = 24
	}
	return &Server{
		store:     st,
		screener:  screener,
		collector: collector,
		lookback:  lookbackHours,
		baseCtx:   ctx,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respond(w, http.StatusOK, map[string]string{"status": "ok"}, nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/screenings", s.createScreening)
		r.Get("/screenings/{id}", s.getScreening)
		r.Get("/runs", s.listRuns)
		r.Get("/metrics", s.metrics)
	})
	return r
}

// envelope is the uniform response wrapper.
type envelope struct {
	Status    string         `json:"status"` // "ok" or "error"
	Timestamp time.Time      `json:"timestamp"`
	Data      any            `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, code int, data any, metadata map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(envelope{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Data:      data,
		Metadata:  metadata,
	}); err != nil {
		zap.L().Warn("server: write response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     msg,
	})
}

type screeningRequest struct {
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	Country      string `json:"country,omitempty"`
	Domain       string `json:"domain,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	RegistryCode string `json:"registry_code,omitempty"`
}

func (s *Server) createScreening(w http.ResponseWriter, r *http.Request) {
	var req screeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	kind := model.SubjectKind(req.Kind)
	if kind != model.SubjectCompany && kind != model.SubjectIndividual {
		s.respondError(w, http.StatusBadRequest, "kind must be company or individual")
		return
	}

	subject := model.Subject{
		Kind:         kind,
		Name:         req.Name,
		Country:      req.Country,
		Domain:       req.Domain,
		DateOfBirth:  req.DateOfBirth,
		RegistryCode: req.RegistryCode,
	}

	run, err := s.store.CreateRun(r.Context(), subject)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create screening")
		return
	}

	go func() {
		if _, err := s.screener.ScreenRun(s.baseCtx, run); err != nil {
			zap.L().Error("async screening failed",
				zap.String("run_id", run.ID),
				zap.String("subject", subject.Name),
				zap.Error(err),
			)
		}
	}()

	s.respond(w, http.StatusAccepted, map[string]string{
		"task_id": run.ID,
		"status":  string(run.Status),
	}, nil)
}

func (s *Server) getScreening(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "screening not found")
		return
	}
	phases, err := s.store.ListPhases(r.Context(), id)
	if err != nil {
		zap.L().Warn("server: list phases", zap.String("run_id", id), zap.Error(err))
	}

	s.respond(w, http.StatusOK, map[string]any{
		"run":    run,
		"phases": phases,
	}, nil)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		Status:  model.RunStatus(q.Get("status")),
		Kind:    model.SubjectKind(q.Get("kind")),
		Subject: q.Get("subject"),
		Limit:   50,
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	s.respond(w, http.StatusOK, runs, map[string]any{"count": len(runs)})
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.collector.Collect(r.Context(), s.lookback)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to collect metrics")
		return
	}
	s.respond(w, http.StatusOK, snap, nil)
}
