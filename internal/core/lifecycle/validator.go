package lifecycle

import (
	"slices"
	"strings"

	"timesheet.service/internal/core/model"
)

// StatusTransition is a validated, not yet applied, status change.
type StatusTransition struct {
	SubmissionID string
	From         model.Status
	To           model.Status
	Action       Action
	Actor        model.Actor
	Note         string
	Submission   model.Submission
}

type rule struct {
	to           model.Status
	roles        []model.Role
	noteRequired bool
}

type ruleKey struct {
	from   model.Status
	action Action
}

var rules = map[ruleKey]rule{
	{model.StatusPending, ActionApprove}: {
		to:    model.StatusApproved,
		roles: []model.Role{model.RoleManager, model.RoleAdmin},
	},
	{model.StatusPending, ActionReject}: {
		to:           model.StatusRejected,
		roles:        []model.Role{model.RoleManager, model.RoleAdmin},
		noteRequired: true,
	},
	{model.StatusPending, ActionRequestClarification}: {
		to:           model.StatusNeedsClarification,
		roles:        []model.Role{model.RoleAdmin},
		noteRequired: true,
	},
	{model.StatusNeedsClarification, ActionResubmit}: {
		to:           model.StatusApproved,
		roles:        []model.Role{model.RoleManager},
		noteRequired: true,
	},
	{model.StatusNeedsClarification, ActionRejectToContractor}: {
		to:           model.StatusRejected,
		roles:        []model.Role{model.RoleManager},
		noteRequired: true,
	},
	{model.StatusApproved, ActionMarkPaid}: {
		to:    model.StatusPaid,
		roles: []model.Role{model.RoleAdmin, model.RoleManager},
	},
}

// ValidateTransition checks whether actor may perform action on sub and
// returns the resulting transition. It has no side effects.
func ValidateTransition(sub model.Submission, action Action, actor model.Actor, note string) (StatusTransition, error) {
	fail := func(reason error) (StatusTransition, error) {
		return StatusTransition{}, &InvalidTransitionError{From: sub.Status, Action: action, Role: actor.Role, Err: reason}
	}

	if !action.Known() {
		return fail(ErrUnknownAction)
	}
	if sub.Status.IsTerminal() {
		return fail(ErrTerminalState)
	}
	r, ok := rules[ruleKey{from: sub.Status, action: action}]
	if !ok {
		return fail(ErrActionNotAllowed)
	}
	if !slices.Contains(r.roles, actor.Role) {
		return fail(ErrUnauthorizedRole)
	}
	note = strings.TrimSpace(note)
	if r.noteRequired && note == "" {
		return fail(ErrNoteRequired)
	}

	return StatusTransition{
		SubmissionID: sub.ID,
		From:         sub.Status,
		To:           r.to,
		Action:       action,
		Actor:        actor,
		Note:         note,
		Submission:   sub,
	}, nil
}

// AvailableActions lists the actions actor could take on sub, assuming a
// note is supplied where one is required.
func AvailableActions(sub model.Submission, actor model.Actor) []Action {
	var out []Action
	for _, a := range Actions {
		if _, err := ValidateTransition(sub, a, actor, "-"); err == nil {
			out = append(out, a)
		}
	}
	return out
}
