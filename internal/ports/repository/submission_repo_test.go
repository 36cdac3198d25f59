package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"timesheet.service/internal/core/model"
)

var submissionColumnNames = strings.Fields(strings.ReplaceAll(submissionColumns, ",", " "))

var (
	periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	submittedAt = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
)

func submissionRow(id, status string, approvedAt, paidAt driver.Value) []driver.Value {
	return []driver.Value{
		id, "c-1", "Wei Chen", "wei.chen@example.com", "HOURLY",
		"m-1", "p-1", "Atlas", periodStart, periodEnd,
		float64(160), float64(8), "Release weekend", "January work",
		float64(50), float64(75), float64(8600), status, "",
		"", "", submittedAt, approvedAt, paidAt,
		"m-1", submittedAt,
	}
}

func TestGetSubmissionDecodesLegacyStatus(t *testing.T) {
	db, state := newScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`(?s)SELECT .*FROM submissions WHERE id = \$1`),
			args:    []driver.Value{"s-1"},
			columns: submissionColumnNames,
			rows:    [][]driver.Value{submissionRow("s-1", "Submitted", nil, nil)},
		},
	})

	repo := NewSubmissionRepository(db)
	s, err := repo.GetSubmission(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("GetSubmission returned error: %v", err)
	}
	if s.Status != model.StatusPending {
		t.Fatalf("expected PENDING, got %s", s.Status)
	}
	if s.ApprovedAt != nil || s.PaidAt != nil {
		t.Fatalf("expected no approval or payment timestamps, got %v %v", s.ApprovedAt, s.PaidAt)
	}
	if s.TotalAmount != 8600 || s.ProjectName != "Atlas" {
		t.Fatalf("unexpected row mapping: %+v", s)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	db, _ := newScriptedDB(t, []*queryStep{
		{kind: kindQuery, columns: submissionColumnNames},
	})

	_, err := NewSubmissionRepository(db).GetSubmission(context.Background(), "missing")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompareAndSetStatusReturnsUpdatedRow(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	cleared := ""
	m := model.Mutation{
		Status:          model.StatusApproved,
		RejectionReason: &cleared,
		ApprovedAt:      &now,
		UpdatedBy:       "m-1",
		UpdatedAt:       now,
	}

	db, state := newScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`(?s)UPDATE submissions.*WHERE id = \$9 AND lower\(trim\(status\)\) IN \(\$10, \$11, \$12\).*RETURNING`),
			args: []driver.Value{
				"approved", "", nil, nil, now, nil, "m-1", now, "s-1",
				"pending", "submitted", "draft_submitted",
			},
			columns: submissionColumnNames,
			rows:    [][]driver.Value{submissionRow("s-1", "approved", now, nil)},
		},
	})

	updated, err := NewSubmissionRepository(db).CompareAndSetStatus(context.Background(), "s-1", model.StatusPending, m)
	if err != nil {
		t.Fatalf("CompareAndSetStatus returned error: %v", err)
	}
	if updated.Status != model.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", updated.Status)
	}
	if updated.ApprovedAt == nil || !updated.ApprovedAt.Equal(now) {
		t.Fatalf("expected approvedAt %v, got %v", now, updated.ApprovedAt)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestCompareAndSetStatusReportsMismatch(t *testing.T) {
	db, state := newScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`(?s)UPDATE submissions`),
			columns: submissionColumnNames,
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT status FROM submissions WHERE id = \$1`),
			args:    []driver.Value{"s-1"},
			columns: []string{"status"},
			rows:    [][]driver.Value{{"rejected"}},
		},
	})

	m := model.Mutation{Status: model.StatusApproved, UpdatedAt: time.Now()}
	_, err := NewSubmissionRepository(db).CompareAndSetStatus(context.Background(), "s-1", model.StatusPending, m)

	var mismatch *StatusMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected StatusMismatchError, got %v", err)
	}
	if mismatch.Actual != model.StatusRejected || mismatch.Expected != model.StatusPending {
		t.Fatalf("unexpected mismatch details: %+v", mismatch)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestCompareAndSetStatusMissingRow(t *testing.T) {
	db, _ := newScriptedDB(t, []*queryStep{
		{kind: kindQuery, columns: submissionColumnNames},
		{kind: kindQuery, columns: []string{"status"}},
	})

	m := model.Mutation{Status: model.StatusApproved, UpdatedAt: time.Now()}
	_, err := NewSubmissionRepository(db).CompareAndSetStatus(context.Background(), "gone", model.StatusPending, m)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSubmissionsPassesScope(t *testing.T) {
	db, state := newScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`(?s)FROM submissions.*contractor_id = \$1.*manager_id = \$2.*ORDER BY submitted_at DESC`),
			args:    []driver.Value{"", "m-1"},
			columns: submissionColumnNames,
			rows: [][]driver.Value{
				submissionRow("s-2", "paid", submittedAt, submittedAt),
				submissionRow("s-1", "pending", nil, nil),
			},
		},
	})

	list, err := NewSubmissionRepository(db).ListSubmissions(context.Background(), Scope{ManagerID: "m-1"})
	if err != nil {
		t.Fatalf("ListSubmissions returned error: %v", err)
	}
	if len(list) != 2 || list[0].Status != model.StatusPaid || list[0].PaidAt == nil {
		t.Fatalf("unexpected listing: %+v", list)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestTxManagerCommitsPaymentWithStatusChange(t *testing.T) {
	paidAt := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	db, state := newScriptedDB(t, []*queryStep{
		{kind: kindBegin},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO payments`),
			args:    []driver.Value{"pay-1", "s-1", "c-1", float64(8600), paidAt, "a-1"},
		},
		{kind: kindCommit},
	})

	tx := NewTxManager(db)
	payments := NewPaymentRepository(db)
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return payments.CreatePayment(ctx, model.Payment{
			ID: "pay-1", SubmissionID: "s-1", ContractorID: "c-1", Amount: 8600, PaidAt: paidAt, CreatedBy: "a-1",
		})
	})
	if err != nil {
		t.Fatalf("WithinTx returned error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	boom := errors.New("duplicate key")
	db, state := newScriptedDB(t, []*queryStep{
		{kind: kindBegin},
		{kind: kindExec, pattern: regexp.MustCompile(`INSERT INTO payments`), err: boom},
		{kind: kindRollback},
	})

	tx := NewTxManager(db)
	payments := NewPaymentRepository(db)
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return payments.CreatePayment(ctx, model.Payment{ID: "pay-1", PaidAt: time.Now()})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the insert error, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestStatusCodesRoundTrip(t *testing.T) {
	for _, status := range model.Statuses {
		code, err := encodeStatus(status)
		if err != nil {
			t.Fatalf("encodeStatus(%s): %v", status, err)
		}
		decoded, err := decodeStatus(code)
		if err != nil || decoded != status {
			t.Fatalf("decodeStatus(%q) = %s, %v", code, decoded, err)
		}
	}
	if _, err := decodeStatus("archived"); err == nil {
		t.Fatalf("expected unknown code to fail")
	}
}

func TestCompareAndSetStatusGuardIgnoresStoredCase(t *testing.T) {
	db, state := newScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`(?s)WHERE id = \$9 AND lower\(trim\(status\)\) IN`),
			columns: submissionColumnNames,
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT status FROM submissions WHERE id = \$1`),
			columns: []string{"status"},
			rows:    [][]driver.Value{{"Submitted"}},
		},
	})

	m := model.Mutation{Status: model.StatusApproved, UpdatedAt: time.Now()}
	_, err := NewSubmissionRepository(db).CompareAndSetStatus(context.Background(), "s-1", model.StatusPending, m)
	if err == nil {
		t.Fatalf("expected an error when the guard misses a row in the expected status")
	}
	var mismatch *StatusMismatchError
	if errors.As(err, &mismatch) {
		t.Fatalf("a row already in the expected status is not a concurrent change: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}
