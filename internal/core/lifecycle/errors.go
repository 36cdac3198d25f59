package lifecycle

import (
	"errors"
	"fmt"

	"timesheet.service/internal/core/model"
)

// Reasons carried by InvalidTransitionError.
var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrTerminalState    = errors.New("submission is in a terminal state")
	ErrActionNotAllowed = errors.New("action not allowed from current status")
	ErrUnauthorizedRole = errors.New("role may not perform this action")
	ErrNoteRequired     = errors.New("a note is required for this action")
)

// InvalidTransitionError reports a transition the lifecycle does not permit.
// Nothing has been changed when it is returned.
type InvalidTransitionError struct {
	From   model.Status
	Action Action
	Role   model.Role
	Err    error
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s submission as %s: %v", e.Action, e.From, e.Role, e.Err)
}

func (e *InvalidTransitionError) Unwrap() error {
	return e.Err
}

// ConcurrentModificationError means the submission changed status between
// validation and apply. Callers should re-fetch and may retry once.
type ConcurrentModificationError struct {
	SubmissionID string
	Expected     model.Status
	Actual       model.Status
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("submission %s was modified concurrently: expected %s, found %s", e.SubmissionID, e.Expected, e.Actual)
}

// PersistenceError wraps a failure of the underlying store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
