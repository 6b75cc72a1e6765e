package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/dedupe"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/metrics"
)

// maxRequestBytes caps the raw request body independent of the extractor's
// own ceiling.
const maxRequestBytes = 64 << 20

// ImportDependencies defines the interface for import submission.
type ImportDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, j model.ImportJob) bool
	ImportLog(ctx context.Context, limit int) ([]model.ImportOutcome, error)
}

// ImportsHandler handles report submissions and the import log.
type ImportsHandler struct {
	deps ImportDependencies
}

// NewImportsHandler creates a new imports handler.
func NewImportsHandler(deps ImportDependencies) *ImportsHandler {
	return &ImportsHandler{deps: deps}
}

// importRequest is the JSON envelope for POST /imports. JobID is optional;
// supplying one makes the submission idempotent.
type importRequest struct {
	JobID    string `json:"job_id"`
	FileName string `json:"file_name"`
	Payload  string `json:"payload"`
}

func (r importRequest) validate() error {
	if strings.TrimSpace(r.Payload) == "" {
		return errors.New("missing payload")
	}
	return nil
}

// HandlePostImport handles POST /imports requests. The body is either a
// JSON envelope or raw report markup; raw submissions get a generated job
// id and skip the duplicate check.
func (h *ImportsHandler) HandlePostImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_import"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	req, err := decodeImportRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}

	// Idempotency check, marked seen before enqueueing.
	if h.deps.SeenAndRecord(r.Context(), req.JobID) {
		metrics.RecordImportDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", JobID: req.JobID, Duplicate: true})
		return
	}

	job := model.ImportJob{
		JobID:       req.JobID,
		FileName:    req.FileName,
		Payload:     req.Payload,
		SubmittedAt: time.Now(),
	}
	if ok := h.deps.Enqueue(r.Context(), job); !ok {
		// Roll back the seen mark so a retry is possible.
		h.deps.Unrecord(r.Context(), req.JobID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}

	metrics.RecordImportSubmitted()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: req.JobID})
}

// HandleGetLog handles GET /imports/log?limit=N requests.
func (h *ImportsHandler) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_import_log"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	log, err := h.deps.ImportLog(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toImportLogResponse(log))
}

func decodeImportRequest(r *http.Request) (importRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return importRequest{}, err
	}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var req importRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return importRequest{}, err
		}
		return req, req.validate()
	}

	req := importRequest{Payload: string(body)}
	return req, req.validate()
}

type importLogEntry struct {
	JobID          string `json:"job_id"`
	FileName       string `json:"file_name,omitempty"`
	IATIIdentifier string `json:"iati_identifier,omitempty"`
	OK             bool   `json:"ok"`
	ErrorKind      string `json:"error_kind,omitempty"`
	CompletedAt    string `json:"completed_at"`
}

func toImportLogResponse(log []model.ImportOutcome) []importLogEntry {
	out := make([]importLogEntry, len(log))
	for i, o := range log {
		out[i] = importLogEntry{
			JobID:          o.JobID,
			FileName:       o.FileName,
			IATIIdentifier: o.IATIIdentifier,
			OK:             o.OK,
			ErrorKind:      o.ErrorKind,
			CompletedAt:    o.CompletedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}
