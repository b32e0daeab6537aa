// Package http exposes the hazard intake API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/couchcryptid/hazard-intake-service/internal/pipeline"
	"github.com/couchcryptid/hazard-intake-service/internal/store"
)

// IntakePipeline processes voice submissions.
type IntakePipeline interface {
	Process(ctx context.Context, sub pipeline.Submission) (pipeline.Result, error)
	CheckReadiness(ctx context.Context) error
}

// HazardStore serves listing and deletion requests.
type HazardStore interface {
	List(ctx context.Context) ([]domain.HazardRecord, store.Origin, error)
	DeleteOne(ctx context.Context, id string, privileged bool) error
	DeleteAll(ctx context.Context, privileged bool) (int, error)
}

// FeedPublisher announces deletions downstream. May be nil.
type FeedPublisher interface {
	HazardDeleted(ctx context.Context, id string) error
	HazardsCleared(ctx context.Context) error
}

// Server exposes the hazard API over HTTP.
type Server struct {
	httpServer *http.Server
	intake     IntakePipeline
	hazards    HazardStore
	feed       FeedPublisher
	adminEmail string
	logger     *slog.Logger
}

// NewServer creates the API server. adminEmail identifies the only caller
// allowed to delete; an empty value disables deletion entirely.
func NewServer(addr string, intake IntakePipeline, hazards HazardStore, feed FeedPublisher, adminEmail string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		intake:     intake,
		hazards:    hazards,
		feed:       feed,
		adminEmail: adminEmail,
		logger:     logger,
	}

	mux.HandleFunc("POST /v1/intake", s.handleIntake)
	mux.HandleFunc("GET /v1/hazards", s.handleList)
	mux.HandleFunc("DELETE /v1/hazards/{id}", s.handleDeleteOne)
	mux.HandleFunc("DELETE /v1/hazards", s.handleDeleteAll)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type intakeRequest struct {
	Transcript string         `json:"transcript"`
	Coords     *domain.Coords `json:"coords,omitempty"`
}

type intakeResponse struct {
	Outcome  pipeline.Outcome     `json:"outcome"`
	Hazard   *domain.HazardRecord `json:"hazard,omitempty"`
	Origin   store.Origin         `json:"origin,omitempty"`
	Guidance string               `json:"guidance,omitempty"`
}

func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	result, err := s.intake.Process(r.Context(), pipeline.Submission{
		Transcript: req.Transcript,
		Coords:     req.Coords,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrNoLocation) {
			writeError(w, http.StatusUnprocessableEntity, "coords are required to record a hazard")
			return
		}
		s.logger.Error("intake failed", "error", err)
		writeError(w, http.StatusBadGateway, "hazard could not be persisted")
		return
	}

	resp := intakeResponse{Outcome: result.Outcome, Guidance: result.Guidance}
	status := http.StatusOK
	if result.Outcome == pipeline.OutcomeRecorded {
		resp.Hazard = &result.Hazard
		resp.Origin = result.Origin
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, origin, err := s.hazards.List(r.Context())
	if err != nil {
		s.logger.Error("list hazards failed", "error", err)
		writeError(w, http.StatusBadGateway, "hazards are unavailable")
		return
	}
	if recs == nil {
		recs = []domain.HazardRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hazards": recs,
		"origin":  origin,
	})
}

func (s *Server) handleDeleteOne(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.hazards.DeleteOne(r.Context(), id, s.isPrivileged(r)); err != nil {
		s.writeDeleteError(w, err)
		return
	}

	if s.feed != nil {
		if err := s.feed.HazardDeleted(r.Context(), id); err != nil {
			s.logger.Warn("feed publish failed", "id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.hazards.DeleteAll(r.Context(), s.isPrivileged(r))
	if err != nil {
		s.writeDeleteError(w, err)
		return
	}

	if s.feed != nil {
		if err := s.feed.HazardsCleared(r.Context()); err != nil {
			s.logger.Warn("feed publish failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (s *Server) writeDeleteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "deletion requires the administrator account")
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid hazard id")
	default:
		s.logger.Error("delete failed", "error", err)
		writeError(w, http.StatusBadGateway, "hazard could not be deleted")
	}
}

// isPrivileged reports whether the request carries the administrator's
// email. Matching is case-insensitive; no email header means unprivileged.
func (s *Server) isPrivileged(r *http.Request) bool {
	email := r.Header.Get("X-User-Email")
	return s.adminEmail != "" && email != "" && strings.EqualFold(email, s.adminEmail)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.intake.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
