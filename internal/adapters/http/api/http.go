// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/LeighHMitchell/AIMS-sub016/internal/adapters/repository"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/dedupe"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/sectoragg"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the application service behind it.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes an import job for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, j model.ImportJob) bool

	// Read operations over stored activities.
	Activities(ctx context.Context) ([]repository.StoredActivity, error)
	Activity(ctx context.Context, iatiID string) (repository.StoredActivity, error)
	AggregateSectors(ctx context.Context, iatiID string) (sectoragg.Summary, error)
	ImportLog(ctx context.Context, limit int) ([]model.ImportOutcome, error)

	// Advisory validation pass-throughs.
	ValidateCode(category, code string) (bool, error)
	ValidateAllocation(allocs []allocation.Allocation) allocation.Result
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	importsHandler    *ImportsHandler
	activitiesHandler *ActivitiesHandler
	validateHandler   *ValidateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		importsHandler:    NewImportsHandler(deps),
		activitiesHandler: NewActivitiesHandler(deps),
		validateHandler:   NewValidateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/imports", MetricsMiddleware(s.importsHandler.HandlePostImport, "imports"))
	mux.HandleFunc("/imports/log", MetricsMiddleware(s.importsHandler.HandleGetLog, "imports_log"))
	mux.HandleFunc("/activities", MetricsMiddleware(s.activitiesHandler.HandleGetActivities, "activities"))
	mux.HandleFunc("/activities/sectors", MetricsMiddleware(s.activitiesHandler.HandleGetSectors, "activity_sectors"))
	mux.HandleFunc("/validate/code", MetricsMiddleware(s.validateHandler.HandleValidateCode, "validate_code"))
	mux.HandleFunc("/validate/allocation", MetricsMiddleware(s.validateHandler.HandleValidateAllocation, "validate_allocation"))
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
