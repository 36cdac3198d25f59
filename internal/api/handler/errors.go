package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"timesheet.service/internal/core"
	"timesheet.service/internal/core/lifecycle"
	"timesheet.service/internal/core/model"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: "bad_request"})
}

// writeError maps service errors onto HTTP statuses. Order matters: a
// missing record is reported as 404 even when wrapped in a PersistenceError.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *model.ValidationError
		invalid    *lifecycle.InvalidTransitionError
		conflict   *lifecycle.ConcurrentModificationError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_failed", Field: validation.Field})
	case errors.Is(err, lifecycle.ErrUnknownAction):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "unknown_action"})
	case errors.Is(err, lifecycle.ErrNoteRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "note_required"})
	case errors.Is(err, core.ErrForbidden), errors.Is(err, lifecycle.ErrUnauthorizedRole):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error(), Code: "forbidden"})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "concurrent_modification"})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "invalid_transition"})
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"})
	}
}
