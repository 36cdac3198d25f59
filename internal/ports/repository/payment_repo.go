package repository

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"timesheet.service/internal/core/model"
)

// PaymentRepo stores payment records in PostgreSQL.
type PaymentRepo struct {
	DB *sql.DB
}

// NewPaymentRepository create new instance
func NewPaymentRepository(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db}
}

// CreatePayment inserts the payment record of a paid submission.
func (r *PaymentRepo) CreatePayment(ctx context.Context, p model.Payment) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.submissionId", p.SubmissionID))

	query := `INSERT INTO payments (id, submission_id, contractor_id, amount, paid_at, created_by)
              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := conn(ctx, r.DB).ExecContext(ctx, query, p.ID, p.SubmissionID, p.ContractorID, p.Amount, p.PaidAt, p.CreatedBy)
	return err
}

// ListPayments returns payments for a contractor, or all payments when
// contractorID is empty, newest first.
func (r *PaymentRepo) ListPayments(ctx context.Context, contractorID string) ([]model.Payment, error) {
	query := `SELECT id, submission_id, contractor_id, amount, paid_at, created_by
              FROM payments
              WHERE ($1 = '' OR contractor_id = $1)
              ORDER BY paid_at DESC, id`

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, contractorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.SubmissionID, &p.ContractorID, &p.Amount, &p.PaidAt, &p.CreatedBy); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
