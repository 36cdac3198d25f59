package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"timesheet.service/internal/core/model"
)

const submissionColumns = `id, contractor_id, contractor_name, contractor_email, contractor_type,
       manager_id, project_id, project_name, period_start, period_end,
       regular_hours, overtime_hours, overtime_description, description,
       hourly_rate, overtime_rate, total_amount, status, rejection_reason,
       admin_note, manager_response, submitted_at, approved_at, paid_at,
       updated_by, updated_at`

// SubmissionRepo is the concrete implementation for a PostgreSQL database.
type SubmissionRepo struct {
	DB *sql.DB
}

// NewSubmissionRepository create new instance
func NewSubmissionRepository(db *sql.DB) *SubmissionRepo {
	return &SubmissionRepo{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*model.Submission, error) {
	var (
		s          model.Submission
		status     string
		approvedAt sql.NullTime
		paidAt     sql.NullTime
	)
	err := row.Scan(
		&s.ID, &s.ContractorID, &s.ContractorName, &s.ContractorEmail, &s.ContractorType,
		&s.ManagerID, &s.ProjectID, &s.ProjectName, &s.PeriodStart, &s.PeriodEnd,
		&s.RegularHours, &s.OvertimeHours, &s.OvertimeDescription, &s.Description,
		&s.HourlyRate, &s.OvertimeRate, &s.TotalAmount, &status, &s.RejectionReason,
		&s.AdminNote, &s.ManagerResponse, &s.SubmittedAt, &approvedAt, &paidAt,
		&s.UpdatedBy, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.Status, err = decodeStatus(status); err != nil {
		return nil, err
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		s.ApprovedAt = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		s.PaidAt = &t
	}
	return &s, nil
}

// CreateSubmission inserts a new submission.
func (r *SubmissionRepo) CreateSubmission(ctx context.Context, s *model.Submission) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.submissionId", s.ID))

	status, err := encodeStatus(s.Status)
	if err != nil {
		return err
	}

	query := `INSERT INTO submissions (` + submissionColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
                      $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	_, err = conn(ctx, r.DB).ExecContext(ctx, query,
		s.ID, s.ContractorID, s.ContractorName, s.ContractorEmail, s.ContractorType,
		s.ManagerID, s.ProjectID, s.ProjectName, s.PeriodStart, s.PeriodEnd,
		s.RegularHours, s.OvertimeHours, s.OvertimeDescription, s.Description,
		s.HourlyRate, s.OvertimeRate, s.TotalAmount, status, s.RejectionReason,
		s.AdminNote, s.ManagerResponse, s.SubmittedAt, s.ApprovedAt, s.PaidAt,
		s.UpdatedBy, s.UpdatedAt,
	)
	return err
}

// GetSubmission fetches a complete submission record by its ID.
func (r *SubmissionRepo) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.submissionId", id))

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s, err := scanSubmission(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return s, err
}

// ListSubmissions returns the submissions visible within scope, newest first.
func (r *SubmissionRepo) ListSubmissions(ctx context.Context, scope Scope) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + `
              FROM submissions
              WHERE ($1 = '' OR contractor_id = $1)
                AND ($2 = '' OR manager_id = $2)
              ORDER BY submitted_at DESC, id`

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, scope.ContractorID, scope.ManagerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// CompareAndSetStatus updates the status and auxiliary fields in a single
// statement guarded by the expected status.
func (r *SubmissionRepo) CompareAndSetStatus(ctx context.Context, id string, expected model.Status, m model.Mutation) (*model.Submission, error) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.submissionId", id),
		attribute.String("app.status.from", expected.String()),
		attribute.String("app.status.to", m.Status.String()),
	)

	next, err := encodeStatus(m.Status)
	if err != nil {
		return nil, err
	}

	// Rows written with a legacy spelling of the expected status still match.
	synonyms := statusCodeSynonyms[expected]
	if len(synonyms) == 0 {
		return nil, fmt.Errorf("unknown submission status %q", expected)
	}

	args := []any{next, m.RejectionReason, m.AdminNote, m.ManagerResponse, m.ApprovedAt, m.PaidAt, m.UpdatedBy, m.UpdatedAt, id}
	placeholders := make([]string, len(synonyms))
	for i, code := range synonyms {
		args = append(args, code)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	query := `UPDATE submissions
              SET status = $1,
                  rejection_reason = COALESCE($2, rejection_reason),
                  admin_note = COALESCE($3, admin_note),
                  manager_response = COALESCE($4, manager_response),
                  approved_at = COALESCE($5, approved_at),
                  paid_at = COALESCE($6, paid_at),
                  updated_by = $7,
                  updated_at = $8
              WHERE id = $9 AND lower(trim(status)) IN (` + strings.Join(placeholders, ", ") + `)
              RETURNING ` + submissionColumns

	updated, err := scanSubmission(conn(ctx, r.DB).QueryRowContext(ctx, query, args...))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	actual, err := r.currentStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if actual == expected {
		return nil, fmt.Errorf("submission %s: stored status decodes as %s but did not match the update guard", id, actual)
	}
	return nil, &StatusMismatchError{ID: id, Expected: expected, Actual: actual}
}

// currentStatus retrieves just the status of a specific submission.
func (r *SubmissionRepo) currentStatus(ctx context.Context, id string) (model.Status, error) {
	var code string
	query := `SELECT status FROM submissions WHERE id = $1`

	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return decodeStatus(code)
}
