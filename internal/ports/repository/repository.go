package repository

import (
	"context"
	"fmt"

	"timesheet.service/internal/core/model"
)

// SubmissionRepository contract
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *model.Submission) error
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, scope Scope) ([]model.Submission, error)
	// CompareAndSetStatus applies m only while the stored status still equals
	// expected. It returns *StatusMismatchError when it does not.
	CompareAndSetStatus(ctx context.Context, id string, expected model.Status, m model.Mutation) (*model.Submission, error)
}

// PaymentRepository contract
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p model.Payment) error
	ListPayments(ctx context.Context, contractorID string) ([]model.Payment, error)
}

// TimeOffRepository contract
type TimeOffRepository interface {
	CreateTimeOff(ctx context.Context, e *model.TimeOffEntry) error
	UpdateTimeOff(ctx context.Context, e *model.TimeOffEntry) error
	DeleteTimeOff(ctx context.Context, id string) error
	GetTimeOff(ctx context.Context, id string) (*model.TimeOffEntry, error)
	ListTimeOff(ctx context.Context) ([]model.TimeOffEntry, error)
}

// UserRepository is the read side of the access-management directory.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Scope narrows a listing to one contractor or one manager's team.
// The zero value lists everything.
type Scope struct {
	ContractorID string
	ManagerID    string
}

// StatusMismatchError is returned by CompareAndSetStatus when the stored
// status differs from the expected one.
type StatusMismatchError struct {
	ID       string
	Expected model.Status
	Actual   model.Status
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("submission %s: expected status %s, found %s", e.ID, e.Expected, e.Actual)
}
