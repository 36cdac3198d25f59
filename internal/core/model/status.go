package model

import "strings"

// Status is the lifecycle state of a timesheet submission.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
	StatusNeedsClarification Status = "NEEDS_CLARIFICATION"
	StatusPaid               Status = "PAID"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusNeedsClarification,
	StatusPaid,
}

// ParseStatus maps a canonical status name, in any case, to its Status.
func ParseStatus(s string) (Status, bool) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range Statuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusPaid
}

func (s Status) String() string {
	return string(s)
}
