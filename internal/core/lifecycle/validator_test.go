package lifecycle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"timesheet.service/internal/core/model"
)

var roles = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleContractor}

func submissionIn(status model.Status) model.Submission {
	return model.Submission{
		ID:                  "s-1",
		ContractorID:        "c-1",
		ManagerID:           "m-1",
		RegularHours:        160,
		OvertimeHours:       8,
		OvertimeDescription: "Release weekend",
		HourlyRate:          50,
		OvertimeRate:        75,
		TotalAmount:         8600,
		Status:              status,
	}
}

func TestValidateTransitionGrid(t *testing.T) {
	type allowed struct {
		to   model.Status
		note bool
	}
	permitted := map[string]allowed{
		"PENDING/APPROVE/ADMIN":                            {model.StatusApproved, false},
		"PENDING/APPROVE/MANAGER":                          {model.StatusApproved, false},
		"PENDING/REJECT/ADMIN":                             {model.StatusRejected, true},
		"PENDING/REJECT/MANAGER":                           {model.StatusRejected, true},
		"PENDING/REQUEST_CLARIFICATION/ADMIN":              {model.StatusNeedsClarification, true},
		"NEEDS_CLARIFICATION/RESUBMIT/MANAGER":             {model.StatusApproved, true},
		"NEEDS_CLARIFICATION/REJECT_TO_CONTRACTOR/MANAGER": {model.StatusRejected, true},
		"APPROVED/MARK_PAID/ADMIN":                         {model.StatusPaid, false},
		"APPROVED/MARK_PAID/MANAGER":                       {model.StatusPaid, false},
	}

	for _, status := range model.Statuses {
		for _, action := range Actions {
			for _, role := range roles {
				for _, note := range []string{"", "   ", "Checked with the client"} {
					key := fmt.Sprintf("%s/%s/%s", status, action, role)
					name := fmt.Sprintf("%s/note=%q", key, note)
					sub := submissionIn(status)
					actor := model.Actor{ID: "u-1", Role: role}

					tr, err := ValidateTransition(sub, action, actor, note)
					want, ok := permitted[key]
					hasNote := note != "" && note != "   "

					if ok && (!want.note || hasNote) {
						if err != nil {
							t.Fatalf("%s: expected success, got %v", name, err)
						}
						if tr.To != want.to || tr.From != status || tr.SubmissionID != "s-1" {
							t.Fatalf("%s: unexpected transition %+v", name, tr)
						}
						continue
					}

					var invalid *InvalidTransitionError
					if !errors.As(err, &invalid) {
						t.Fatalf("%s: expected InvalidTransitionError, got %v", name, err)
					}
					if invalid.From != status || invalid.Action != action || invalid.Role != role {
						t.Fatalf("%s: error does not carry the attempted pair: %+v", name, invalid)
					}

					var reason error
					switch {
					case status.IsTerminal():
						reason = ErrTerminalState
					case ok:
						reason = ErrNoteRequired
					default:
						if _, fromState := rules[ruleKey{status, action}]; fromState {
							reason = ErrUnauthorizedRole
						} else {
							reason = ErrActionNotAllowed
						}
					}
					if !errors.Is(err, reason) {
						t.Fatalf("%s: expected %v, got %v", name, reason, err)
					}
				}
			}
		}
	}
}

func TestValidateTransitionUnknownActionCheckedFirst(t *testing.T) {
	_, err := ValidateTransition(submissionIn(model.StatusPaid), Action("ARCHIVE"), model.Actor{Role: model.RoleAdmin}, "")
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestPendingApproveByManagerAlwaysSucceeds(t *testing.T) {
	for _, overtime := range []float64{0, 8, 40} {
		sub := submissionIn(model.StatusPending)
		sub.OvertimeHours = overtime
		tr, err := ValidateTransition(sub, ActionApprove, model.Actor{ID: "m-1", Role: model.RoleManager}, "")
		if err != nil || tr.To != model.StatusApproved {
			t.Fatalf("overtime %v: got %+v, %v", overtime, tr, err)
		}
	}
}

func TestContractorCannotTransition(t *testing.T) {
	contractor := model.Actor{ID: "c-1", Role: model.RoleContractor}
	for _, status := range model.Statuses {
		for _, action := range Actions {
			if _, err := ValidateTransition(submissionIn(status), action, contractor, "note"); err == nil {
				t.Fatalf("contractor performed %s from %s", action, status)
			}
		}
	}
}

func TestRejectRequiresReasonForAllRoles(t *testing.T) {
	for _, role := range roles {
		_, err := ValidateTransition(submissionIn(model.StatusPending), ActionReject, model.Actor{Role: role}, "")
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s: expected InvalidTransitionError, got %v", role, err)
		}
	}
}

func TestRejectScenario(t *testing.T) {
	sub := submissionIn(model.StatusPending)
	tr, err := ValidateTransition(sub, ActionReject, model.Actor{ID: "m-1", Role: model.RoleManager}, "Hours mismatch")
	if err != nil {
		t.Fatalf("ValidateTransition returned error: %v", err)
	}

	got := BuildMutation(tr, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)).ApplyTo(sub)
	if got.Status != model.StatusRejected || got.RejectionReason != "Hours mismatch" {
		t.Fatalf("unexpected result: status=%s reason=%q", got.Status, got.RejectionReason)
	}
	if err := got.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestClarificationRoundTrip(t *testing.T) {
	sub := submissionIn(model.StatusPending)
	now := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	tr, err := ValidateTransition(sub, ActionRequestClarification, model.Actor{ID: "a-1", Role: model.RoleAdmin}, "Which project was the overtime for?")
	if err != nil {
		t.Fatalf("request clarification: %v", err)
	}
	clarifying := BuildMutation(tr, now).ApplyTo(sub)
	if clarifying.AdminNote == "" || clarifying.Status != model.StatusNeedsClarification {
		t.Fatalf("unexpected clarification state: %+v", clarifying)
	}

	tr, err = ValidateTransition(clarifying, ActionResubmit, model.Actor{ID: "m-1", Role: model.RoleManager}, "Atlas release weekend")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	approved := BuildMutation(tr, now.Add(time.Hour)).ApplyTo(clarifying)

	if approved.Status != model.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}
	if approved.AdminNote != "" {
		t.Fatalf("expected adminNote cleared, got %q", approved.AdminNote)
	}
	if approved.ManagerResponse != "Atlas release weekend" {
		t.Fatalf("expected manager response recorded, got %q", approved.ManagerResponse)
	}
	if approved.RegularHours != sub.RegularHours || approved.OvertimeHours != sub.OvertimeHours || approved.TotalAmount != sub.TotalAmount {
		t.Fatalf("hours or amounts changed: %+v", approved)
	}
	if err := approved.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestRejectToContractorClearsAdminNote(t *testing.T) {
	sub := submissionIn(model.StatusNeedsClarification)
	sub.AdminNote = "Please explain"

	tr, err := ValidateTransition(sub, ActionRejectToContractor, model.Actor{ID: "m-1", Role: model.RoleManager}, " Wrong period ")
	if err != nil {
		t.Fatalf("ValidateTransition: %v", err)
	}
	got := BuildMutation(tr, time.Now()).ApplyTo(sub)
	if got.Status != model.StatusRejected || got.RejectionReason != "Wrong period" || got.AdminNote != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestMarkPaidKeepsApprovalTimestamp(t *testing.T) {
	approvedAt := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	sub := submissionIn(model.StatusApproved)
	sub.ApprovedAt = &approvedAt

	tr, err := ValidateTransition(sub, ActionMarkPaid, model.Actor{ID: "a-1", Role: model.RoleAdmin}, "")
	if err != nil {
		t.Fatalf("ValidateTransition: %v", err)
	}
	got := BuildMutation(tr, approvedAt.Add(48*time.Hour)).ApplyTo(sub)
	if got.PaidAt == nil || got.ApprovedAt == nil || !got.ApprovedAt.Equal(approvedAt) {
		t.Fatalf("unexpected timestamps: approved=%v paid=%v", got.ApprovedAt, got.PaidAt)
	}
	if err := got.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestAvailableActions(t *testing.T) {
	got := AvailableActions(submissionIn(model.StatusPending), model.Actor{Role: model.RoleAdmin})
	want := []Action{ActionApprove, ActionReject, ActionRequestClarification}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("AvailableActions() = %v, want %v", got, want)
	}
	if got := AvailableActions(submissionIn(model.StatusPaid), model.Actor{Role: model.RoleAdmin}); len(got) != 0 {
		t.Fatalf("expected no actions for PAID, got %v", got)
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"approve":              ActionApprove,
		"reject-to-contractor": ActionRejectToContractor,
		"mark paid":            ActionMarkPaid,
		" RESUBMIT ":           ActionResubmit,
	}
	for in, want := range cases {
		got, ok := ParseAction(in)
		if !ok || got != want {
			t.Fatalf("ParseAction(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseAction("archive"); ok {
		t.Fatalf("expected archive to be unknown")
	}
}
