package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/adapters/repository"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/sectoragg"
)

// ActivityDependencies defines the interface for activity reads.
type ActivityDependencies interface {
	Activities(ctx context.Context) ([]repository.StoredActivity, error)
	Activity(ctx context.Context, iatiID string) (repository.StoredActivity, error)
	AggregateSectors(ctx context.Context, iatiID string) (sectoragg.Summary, error)
}

// ActivitiesHandler handles stored-activity requests.
type ActivitiesHandler struct {
	deps ActivityDependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivityDependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// activityResponse mirrors the stored activity record.
type activityResponse struct {
	IATIIdentifier   string `json:"iati_identifier"`
	ReportingOrgRef  string `json:"reporting_org_ref"`
	ReportingOrgName string `json:"reporting_org_name,omitempty"`
	LastUpdated      string `json:"last_updated,omitempty"`
	ImportedAt       string `json:"imported_at"`
}

// HandleGetActivities handles GET /activities and GET /activities?id=
// requests.
func (h *ActivitiesHandler) HandleGetActivities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_activities"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		act, err := h.deps.Activity(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, toActivityResponse(act))
		return
	}

	acts, err := h.deps.Activities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]activityResponse, len(acts))
	for i, act := range acts {
		out[i] = toActivityResponse(act)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSectors handles GET /activities/sectors?id= requests with the
// value-weighted sector distribution of one activity.
func (h *ActivitiesHandler) HandleGetSectors(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_activity_sectors"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	summary, err := h.deps.AggregateSectors(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func toActivityResponse(act repository.StoredActivity) activityResponse {
	return activityResponse{
		IATIIdentifier:   act.IATIIdentifier,
		ReportingOrgRef:  act.ReportingOrgRef,
		ReportingOrgName: act.ReportingOrgName,
		LastUpdated:      act.LastUpdated,
		ImportedAt:       act.ImportedAt.UTC().Format(time.RFC3339),
	}
}
