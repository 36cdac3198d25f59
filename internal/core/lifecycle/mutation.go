package lifecycle

import (
	"time"

	"timesheet.service/internal/core/model"
)

// BuildMutation derives the persisted field changes of t.
func BuildMutation(t StatusTransition, now time.Time) model.Mutation {
	m := model.Mutation{
		Status:    t.To,
		UpdatedBy: t.Actor.ID,
		UpdatedAt: now,
		Reason:    t.Note,
	}

	cleared := ""
	note := t.Note

	switch t.Action {
	case ActionApprove:
		m.RejectionReason = &cleared
		m.ApprovedAt = &now
	case ActionReject:
		m.RejectionReason = &note
	case ActionRequestClarification:
		m.AdminNote = &note
	case ActionResubmit:
		m.RejectionReason = &cleared
		m.AdminNote = &cleared
		m.ManagerResponse = &note
		m.ApprovedAt = &now
	case ActionRejectToContractor:
		m.RejectionReason = &note
		m.AdminNote = &cleared
		m.ManagerResponse = &note
	case ActionMarkPaid:
		m.PaidAt = &now
	}
	return m
}
