package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"timesheet.service/internal/core/lifecycle"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/query"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
)

// ErrForbidden is returned when the actor may not access a resource.
var ErrForbidden = errors.New("forbidden")

type SubmissionService struct {
	repo     repository.SubmissionRepository
	payments repository.PaymentRepository
	applier  *lifecycle.Applier
	producer messaging.NotificationProducer
	now      func() time.Time
}

// NewSubmissionService wires the submission store, the transition applier
// and the notification producer into the main application service.
func NewSubmissionService(repo repository.SubmissionRepository, payments repository.PaymentRepository, applier *lifecycle.Applier, p messaging.NotificationProducer) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		payments: payments,
		applier:  applier,
		producer: p,
		now:      time.Now,
	}
}

// Submit records a new PENDING timesheet. Contractors submit for
// themselves; admins may submit on a contractor's behalf.
func (s *SubmissionService) Submit(ctx context.Context, actor model.Actor, params model.NewSubmissionParams) (*model.Submission, error) {
	switch {
	case actor.IsContractor():
		if params.ContractorID != "" && params.ContractorID != actor.ID {
			return nil, ErrForbidden
		}
		params.ContractorID = actor.ID
	case actor.IsAdmin():
	default:
		return nil, ErrForbidden
	}

	sub, err := model.NewSubmission(params, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return nil, &lifecycle.PersistenceError{Op: "create submission", Err: err}
	}

	log.Ctx(ctx).Info().
		Str("submission_id", sub.ID).
		Str("contractor_id", sub.ContractorID).
		Float64("total_amount", sub.TotalAmount).
		Msg("Submission created")

	event := messaging.SubmissionEvent{
		EventID:         uuid.New().String(),
		Type:            messaging.SubmissionSubmitted,
		SubmissionID:    sub.ID,
		ContractorID:    sub.ContractorID,
		ContractorName:  sub.ContractorName,
		ContractorEmail: sub.ContractorEmail,
		ActorID:         actor.ID,
		ActorRole:       string(actor.Role),
		ToStatus:        sub.Status.String(),
		Amount:          sub.TotalAmount,
		OccurredAt:      sub.SubmittedAt,
	}
	if err := s.producer.PublishNotification(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("submission_id", sub.ID).Msg("Failed to publish submission event")
	}
	return sub, nil
}

// Get returns a submission the actor is allowed to see.
func (s *SubmissionService) Get(ctx context.Context, actor model.Actor, id string) (*model.Submission, error) {
	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	if !actor.CanView(sub) {
		return nil, ErrForbidden
	}
	return sub, nil
}

// List returns the actor's visible submissions narrowed by f.
func (s *SubmissionService) List(ctx context.Context, actor model.Actor, f query.Filter) ([]model.Submission, error) {
	var scope repository.Scope
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleManager:
		scope.ManagerID = actor.ID
	case model.RoleContractor:
		scope.ContractorID = actor.ID
	default:
		return nil, ErrForbidden
	}

	list, err := s.repo.ListSubmissions(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return query.FilterSubmissions(list, f), nil
}

// Summary totals the submissions List would return.
func (s *SubmissionService) Summary(ctx context.Context, actor model.Actor, f query.Filter) (query.Summary, error) {
	list, err := s.List(ctx, actor, f)
	if err != nil {
		return query.Summary{}, err
	}
	return query.Summarize(list), nil
}

// AvailableActions lists what the actor can do next with a submission.
func (s *SubmissionService) AvailableActions(ctx context.Context, actor model.Actor, id string) ([]lifecycle.Action, error) {
	sub, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return lifecycle.AvailableActions(*sub, actor), nil
}

// Transition validates and applies action. When another writer got there
// first it re-reads the submission and tries once more against the fresh
// state.
func (s *SubmissionService) Transition(ctx context.Context, actor model.Actor, id string, action lifecycle.Action, note string) (*model.Submission, error) {
	updated, err := s.transition(ctx, actor, id, action, note)

	var conflict *lifecycle.ConcurrentModificationError
	if errors.As(err, &conflict) {
		log.Ctx(ctx).Warn().
			Str("submission_id", id).
			Str("expected", conflict.Expected.String()).
			Str("actual", conflict.Actual.String()).
			Msg("Concurrent modification, retrying against fresh state")
		return s.transition(ctx, actor, id, action, note)
	}
	return updated, err
}

func (s *SubmissionService) transition(ctx context.Context, actor model.Actor, id string, action lifecycle.Action, note string) (*model.Submission, error) {
	sub, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	t, err := lifecycle.ValidateTransition(*sub, action, actor, note)
	if err != nil {
		return nil, err
	}
	return s.applier.Apply(ctx, t)
}

// Payments lists payment records. Contractors see their own; admins see
// everyone's or one contractor's.
func (s *SubmissionService) Payments(ctx context.Context, actor model.Actor, contractorID string) ([]model.Payment, error) {
	switch {
	case actor.IsContractor():
		if contractorID != "" && contractorID != actor.ID {
			return nil, ErrForbidden
		}
		contractorID = actor.ID
	case actor.IsAdmin():
	default:
		return nil, ErrForbidden
	}

	payments, err := s.payments.ListPayments(ctx, contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
