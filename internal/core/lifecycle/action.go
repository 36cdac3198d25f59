package lifecycle

import "strings"

// Action is a requested status change.
type Action string

const (
	ActionApprove              Action = "APPROVE"
	ActionReject               Action = "REJECT"
	ActionRequestClarification Action = "REQUEST_CLARIFICATION"
	ActionResubmit             Action = "RESUBMIT"
	ActionRejectToContractor   Action = "REJECT_TO_CONTRACTOR"
	ActionMarkPaid             Action = "MARK_PAID"
)

// Actions lists every known action.
var Actions = []Action{
	ActionApprove,
	ActionReject,
	ActionRequestClarification,
	ActionResubmit,
	ActionRejectToContractor,
	ActionMarkPaid,
}

// ParseAction accepts the canonical name in any case, with "-" or " " in
// place of "_" ("reject-to-contractor", "mark paid").
func ParseAction(s string) (Action, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	a := Action(normalized)
	return a, a.Known()
}

// Known reports whether a is one of Actions.
func (a Action) Known() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

func (a Action) String() string {
	return string(a)
}
