package model

import "time"

// Mutation is the set of field changes a status transition persists.
// A nil pointer leaves the field untouched; a pointer to "" clears it.
type Mutation struct {
	Status          Status
	RejectionReason *string
	AdminNote       *string
	ManagerResponse *string
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	UpdatedBy       string
	UpdatedAt       time.Time
	Reason          string
}

// ApplyTo returns a copy of s with the mutation applied.
func (m Mutation) ApplyTo(s Submission) Submission {
	s.Status = m.Status
	if m.RejectionReason != nil {
		s.RejectionReason = *m.RejectionReason
	}
	if m.AdminNote != nil {
		s.AdminNote = *m.AdminNote
	}
	if m.ManagerResponse != nil {
		s.ManagerResponse = *m.ManagerResponse
	}
	if m.ApprovedAt != nil {
		t := *m.ApprovedAt
		s.ApprovedAt = &t
	}
	if m.PaidAt != nil {
		t := *m.PaidAt
		s.PaidAt = &t
	}
	s.UpdatedBy = m.UpdatedBy
	s.UpdatedAt = m.UpdatedAt
	return s
}
