package model

import "time"

// TimeOffScope selects who a calendar entry applies to.
type TimeOffScope string

const (
	ScopeAll   TimeOffScope = "ALL"
	ScopeRoles TimeOffScope = "ROLES"
)

// TimeOffEntry is a holiday or special time-off period on the shared calendar.
// A nil EndDate means the entry is ongoing.
type TimeOffEntry struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	StartDate     time.Time    `json:"startDate"`
	EndDate       *time.Time   `json:"endDate,omitempty"`
	Scope         TimeOffScope `json:"scope"`
	Roles         []string     `json:"roles,omitempty"`
	AffectedCount int          `json:"affectedCount"`
	CreatedBy     string       `json:"createdBy,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
