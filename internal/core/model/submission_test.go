package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validParams() NewSubmissionParams {
	return NewSubmissionParams{
		ContractorID:    "c-1",
		ContractorName:  "Wei Chen",
		ContractorEmail: "wei.chen@example.com",
		ContractorType:  "hourly",
		PeriodStart:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		RegularHours:    160,
		Description:     "January development work",
		HourlyRate:      50,
	}
}

func TestNewSubmissionComputesAmountAndStartsPending(t *testing.T) {
	p := validParams()
	p.OvertimeHours = 8
	p.OvertimeDescription = "Release weekend"
	p.OvertimeRate = 75

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s, err := NewSubmission(p, now)
	if err != nil {
		t.Fatalf("NewSubmission returned error: %v", err)
	}
	if s.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", s.Status)
	}
	if s.TotalAmount != 8600 {
		t.Fatalf("expected total 8600, got %.2f", s.TotalAmount)
	}
	if s.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if s.ContractorType != "HOURLY" {
		t.Fatalf("expected contractor type to be upper-cased, got %q", s.ContractorType)
	}
	if !s.SubmittedAt.Equal(now) {
		t.Fatalf("expected submittedAt %v, got %v", now, s.SubmittedAt)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("new submission violates invariants: %v", err)
	}
}

func TestNewSubmissionOvertimeRateDefaultsToHourlyRate(t *testing.T) {
	p := validParams()
	p.OvertimeHours = 2
	p.OvertimeDescription = "Incident call"

	s, err := NewSubmission(p, time.Now())
	if err != nil {
		t.Fatalf("NewSubmission returned error: %v", err)
	}
	if s.OvertimeRate != 50 {
		t.Fatalf("expected overtime rate 50, got %.2f", s.OvertimeRate)
	}
	if s.TotalAmount != 8100 {
		t.Fatalf("expected total 8100, got %.2f", s.TotalAmount)
	}
}

func TestNewSubmissionValidationNamesField(t *testing.T) {
	cases := map[string]func(p *NewSubmissionParams){
		"contractorId":        func(p *NewSubmissionParams) { p.ContractorID = " " },
		"periodStart":         func(p *NewSubmissionParams) { p.PeriodStart = time.Time{} },
		"periodEnd":           func(p *NewSubmissionParams) { p.PeriodEnd = p.PeriodStart.AddDate(0, 0, -1) },
		"regularHours":        func(p *NewSubmissionParams) { p.RegularHours = 0 },
		"overtimeHours":       func(p *NewSubmissionParams) { p.OvertimeHours = -1 },
		"overtimeDescription": func(p *NewSubmissionParams) { p.OvertimeHours = 4 },
		"description":         func(p *NewSubmissionParams) { p.Description = "" },
		"hourlyRate":          func(p *NewSubmissionParams) { p.HourlyRate = -10 },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			p := validParams()
			mutate(&p)
			_, err := NewSubmission(p, time.Now())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != field {
				t.Fatalf("expected field %q, got %q", field, verr.Field)
			}
		})
	}
}

func TestNewSubmissionRejectsNonFiniteNumbers(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()
	cases := map[string]func(p *NewSubmissionParams){
		"regularHours":  func(p *NewSubmissionParams) { p.RegularHours = inf },
		"overtimeHours": func(p *NewSubmissionParams) { p.OvertimeHours = inf },
		"hourlyRate":    func(p *NewSubmissionParams) { p.HourlyRate = nan },
		"overtimeRate":  func(p *NewSubmissionParams) { p.OvertimeRate = math.Inf(-1) },
	}

	for field, mutate := range cases {
		p := validParams()
		mutate(&p)
		_, err := NewSubmission(p, time.Now())
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Fatalf("%s: expected ValidationError for the field, got %v", field, err)
		}
	}
}

func TestMutationApplyToLeavesNilFieldsUntouched(t *testing.T) {
	s, err := NewSubmission(validParams(), time.Now())
	if err != nil {
		t.Fatalf("NewSubmission returned error: %v", err)
	}
	s.AdminNote = "please attach receipts"

	empty := ""
	now := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	updated := Mutation{
		Status:          StatusApproved,
		RejectionReason: &empty,
		ApprovedAt:      &now,
		UpdatedBy:       "m-1",
		UpdatedAt:       now,
	}.ApplyTo(*s)

	if updated.AdminNote != "please attach receipts" {
		t.Fatalf("expected admin note to be kept, got %q", updated.AdminNote)
	}
	if updated.ApprovedAt == nil || !updated.ApprovedAt.Equal(now) {
		t.Fatalf("expected approvedAt %v, got %v", now, updated.ApprovedAt)
	}
	if s.Status != StatusPending {
		t.Fatalf("ApplyTo must not modify the original, got status %s", s.Status)
	}
}

func TestCheckInvariants(t *testing.T) {
	s, err := NewSubmission(validParams(), time.Now())
	if err != nil {
		t.Fatalf("NewSubmission returned error: %v", err)
	}

	rejected := *s
	rejected.Status = StatusRejected
	if err := rejected.CheckInvariants(); err == nil {
		t.Fatalf("expected rejected submission without reason to fail")
	}

	paid := *s
	paid.Status = StatusPaid
	if err := paid.CheckInvariants(); err == nil {
		t.Fatalf("expected paid submission without paidAt to fail")
	}
}

func TestParseStatusAndRole(t *testing.T) {
	if st, ok := ParseStatus("needs_clarification"); !ok || st != StatusNeedsClarification {
		t.Fatalf("unexpected ParseStatus result: %q %v", st, ok)
	}
	if _, ok := ParseStatus("ALL"); ok {
		t.Fatalf("ALL is not a status")
	}
	if r, ok := ParseRole(" manager "); !ok || r != RoleManager {
		t.Fatalf("unexpected ParseRole result: %q %v", r, ok)
	}
	if !StatusPaid.IsTerminal() || !StatusRejected.IsTerminal() || StatusApproved.IsTerminal() {
		t.Fatalf("unexpected terminal classification")
	}
}
