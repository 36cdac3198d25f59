package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"timesheet.service/internal/core"
	"timesheet.service/internal/core/model"
)

type TimeOffHandler struct {
	Service *core.CalendarService
}

type TimeOffRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Scope       string   `json:"scope"`
	Roles       []string `json:"roles"`
}

func (req TimeOffRequest) entry() (model.TimeOffEntry, error) {
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return model.TimeOffEntry{}, err
	}
	e := model.TimeOffEntry{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		Scope:       model.TimeOffScope(req.Scope),
		Roles:       req.Roles,
	}
	if req.EndDate != "" {
		end, err := parseDate("endDate", req.EndDate)
		if err != nil {
			return model.TimeOffEntry{}, err
		}
		e.EndDate = &end
	}
	return e, nil
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (model.TimeOffEntry, bool) {
	var req TimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return model.TimeOffEntry{}, false
	}
	entry, err := req.entry()
	if err != nil {
		writeError(w, r, err)
		return model.TimeOffEntry{}, false
	}
	return entry, true
}

// List returns calendar entries. With from and to it returns only the
// entries overlapping that range, optionally narrowed to one role.
func (h *TimeOffHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		entries []model.TimeOffEntry
		err     error
	)
	if q.Get("from") == "" && q.Get("to") == "" {
		entries, err = h.Service.List(r.Context())
	} else {
		var from, to time.Time
		if from, err = parseDate("from", q.Get("from")); err != nil {
			writeError(w, r, err)
			return
		}
		if to, err = parseDate("to", q.Get("to")); err != nil {
			writeError(w, r, err)
			return
		}
		if from.IsZero() || to.IsZero() {
			badRequest(w, "from and to must be given together")
			return
		}
		entries, err = h.Service.ListAffecting(r.Context(), from, to, q.Get("role"))
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.TimeOffEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TimeOffHandler) Create(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	created, err := h.Service.Create(r.Context(), actor(r), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *TimeOffHandler) Update(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry.ID = mux.Vars(r)["id"]
	updated, err := h.Service.Update(r.Context(), actor(r), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TimeOffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), actor(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
