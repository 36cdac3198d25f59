package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"timesheet.service/internal/api/middleware"
	"timesheet.service/internal/core"
	"timesheet.service/internal/core/lifecycle"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/query"
)

// DateLayout is the wire format of work-period and calendar dates.
const DateLayout = "2006-01-02"

type SubmissionHandler struct {
	Service *core.SubmissionService
}

type CreateSubmissionRequest struct {
	ContractorID        string  `json:"contractorId"`
	ContractorName      string  `json:"contractorName"`
	ContractorEmail     string  `json:"contractorEmail"`
	ContractorType      string  `json:"contractorType"`
	ManagerID           string  `json:"managerId"`
	ProjectID           string  `json:"projectId"`
	ProjectName         string  `json:"projectName"`
	PeriodStart         string  `json:"periodStart"`
	PeriodEnd           string  `json:"periodEnd"`
	RegularHours        float64 `json:"regularHours"`
	OvertimeHours       float64 `json:"overtimeHours"`
	OvertimeDescription string  `json:"overtimeDescription"`
	Description         string  `json:"description"`
	HourlyRate          float64 `json:"hourlyRate"`
	OvertimeRate        float64 `json:"overtimeRate"`
}

type TransitionRequest struct {
	Action string `json:"action"`
	Note   string `json:"note"`
}

type ActionsResponse struct {
	SubmissionID string             `json:"submissionId"`
	Actions      []lifecycle.Action `json:"actions"`
}

// parseDate accepts an empty string as the zero time so that the model
// reports the missing field.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

func (req CreateSubmissionRequest) params() (model.NewSubmissionParams, error) {
	start, err := parseDate("periodStart", req.PeriodStart)
	if err != nil {
		return model.NewSubmissionParams{}, err
	}
	end, err := parseDate("periodEnd", req.PeriodEnd)
	if err != nil {
		return model.NewSubmissionParams{}, err
	}
	return model.NewSubmissionParams{
		ContractorID:        req.ContractorID,
		ContractorName:      req.ContractorName,
		ContractorEmail:     req.ContractorEmail,
		ContractorType:      req.ContractorType,
		ManagerID:           req.ManagerID,
		ProjectID:           req.ProjectID,
		ProjectName:         req.ProjectName,
		PeriodStart:         start,
		PeriodEnd:           end,
		RegularHours:        req.RegularHours,
		OvertimeHours:       req.OvertimeHours,
		OvertimeDescription: req.OvertimeDescription,
		Description:         req.Description,
		HourlyRate:          req.HourlyRate,
		OvertimeRate:        req.OvertimeRate,
	}, nil
}

func actor(r *http.Request) model.Actor {
	a, _ := middleware.ActorFromContext(r.Context())
	return a
}

func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	params, err := req.params()
	if err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := h.Service.Submit(r.Context(), actor(r), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), actor(r), query.ParseFilter(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []model.Submission{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SubmissionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), actor(r), query.ParseFilter(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Service.Get(r.Context(), actor(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) Actions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	actions, err := h.Service.AvailableActions(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if actions == nil {
		actions = []lifecycle.Action{}
	}
	writeJSON(w, http.StatusOK, ActionsResponse{SubmissionID: id, Actions: actions})
}

// Transition moves a submission through its lifecycle.
func (h *SubmissionHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if req.Action == "" {
		badRequest(w, "action is required")
		return
	}

	// Unknown names fall through so the validator reports them.
	action, ok := lifecycle.ParseAction(req.Action)
	if !ok {
		action = lifecycle.Action(req.Action)
	}

	sub, err := h.Service.Transition(r.Context(), actor(r), mux.Vars(r)["id"], action, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) Payments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.Payments(r.Context(), actor(r), r.URL.Query().Get("contractor"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
