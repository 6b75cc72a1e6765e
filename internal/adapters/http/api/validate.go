package api

import (
	"encoding/json"
	"net/http"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
)

// ValidateDependencies defines the interface for advisory validation.
type ValidateDependencies interface {
	ValidateCode(category, code string) (bool, error)
	ValidateAllocation(allocs []allocation.Allocation) allocation.Result
}

// ValidateHandler handles advisory validation requests.
type ValidateHandler struct {
	deps ValidateDependencies
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(deps ValidateDependencies) *ValidateHandler {
	return &ValidateHandler{deps: deps}
}

type codeCheckResponse struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Valid    bool   `json:"valid"`
}

// HandleValidateCode handles GET /validate/code?category=&code= requests.
func (h *ValidateHandler) HandleValidateCode(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate_code"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	category := r.URL.Query().Get("category")
	code := r.URL.Query().Get("code")
	if category == "" || code == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	valid, err := h.deps.ValidateCode(category, code)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_category", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, codeCheckResponse{Category: category, Code: code, Valid: valid})
}

// allocationRequest is the JSON body for POST /validate/allocation.
type allocationRequest struct {
	Allocations []struct {
		Code       string  `json:"code"`
		Percentage float64 `json:"percentage"`
	} `json:"allocations"`
}

type allocationResponse struct {
	Valid   bool    `json:"valid"`
	Total   float64 `json:"total"`
	Warning string  `json:"warning,omitempty"`
}

// HandleValidateAllocation handles POST /validate/allocation requests.
func (h *ValidateHandler) HandleValidateAllocation(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate_allocation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	allocs := make([]allocation.Allocation, len(req.Allocations))
	for i, a := range req.Allocations {
		allocs[i] = allocation.Allocation{Code: a.Code, Percentage: a.Percentage}
	}

	res := h.deps.ValidateAllocation(allocs)
	writeJSON(w, http.StatusOK, allocationResponse{
		Valid:   res.Valid,
		Total:   res.Total,
		Warning: res.Warning,
	})
}
