package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
)

// Applier persists validated transitions.
type Applier struct {
	submissions repository.SubmissionRepository
	payments    repository.PaymentRepository
	tx          repository.Transactor
	publisher   messaging.NotificationProducer
	now         func() time.Time
}

// NewApplier wires the applier to its stores and the notification queue.
// publisher may be nil.
func NewApplier(submissions repository.SubmissionRepository, payments repository.PaymentRepository, tx repository.Transactor, publisher messaging.NotificationProducer) *Applier {
	return &Applier{
		submissions: submissions,
		payments:    payments,
		tx:          tx,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Apply writes t with a compare-and-set on t.From. A MARK_PAID transition
// also records the payment in the same transaction. One event is published
// after commit.
func (a *Applier) Apply(ctx context.Context, t StatusTransition) (*model.Submission, error) {
	ctx, span := otel.Tracer("timesheet.service/lifecycle").Start(ctx, "ApplyTransition")
	defer span.End()
	span.SetAttributes(
		attribute.String("app.submissionId", t.SubmissionID),
		attribute.String("app.action", t.Action.String()),
	)

	now := a.now().UTC()
	m := BuildMutation(t, now)

	var (
		updated *model.Submission
		payment *model.Payment
	)
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = a.submissions.CompareAndSetStatus(ctx, t.SubmissionID, t.From, m)
		if err != nil {
			return err
		}
		if t.To != model.StatusPaid {
			return nil
		}

		p := model.Payment{
			ID:           uuid.New().String(),
			SubmissionID: updated.ID,
			ContractorID: updated.ContractorID,
			Amount:       updated.TotalAmount,
			PaidAt:       now,
			CreatedBy:    t.Actor.ID,
		}
		if err := a.payments.CreatePayment(ctx, p); err != nil {
			return &PersistenceError{Op: "create payment", Err: err}
		}
		payment = &p
		return nil
	})
	if err != nil {
		err = classify(t, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("submission_id", updated.ID).
		Str("from", t.From.String()).
		Str("to", updated.Status.String()).
		Str("actor_id", t.Actor.ID).
		Msg("Submission transitioned")

	a.publish(ctx, t, updated, now)
	if payment != nil {
		a.publishPayment(ctx, updated, payment)
	}
	return updated, nil
}

func classify(t StatusTransition, err error) error {
	var mismatch *repository.StatusMismatchError
	if errors.As(err, &mismatch) {
		return &ConcurrentModificationError{SubmissionID: t.SubmissionID, Expected: mismatch.Expected, Actual: mismatch.Actual}
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return perr
	}
	return &PersistenceError{Op: "update submission status", Err: err}
}

func (a *Applier) publish(ctx context.Context, t StatusTransition, s *model.Submission, at time.Time) {
	if a.publisher == nil {
		return
	}

	event := messaging.SubmissionEvent{
		EventID:         uuid.New().String(),
		Type:            EventTypeFor(s.Status),
		SubmissionID:    s.ID,
		ContractorID:    s.ContractorID,
		ContractorName:  s.ContractorName,
		ContractorEmail: s.ContractorEmail,
		ActorID:         t.Actor.ID,
		ActorRole:       string(t.Actor.Role),
		Action:          t.Action.String(),
		FromStatus:      t.From.String(),
		ToStatus:        s.Status.String(),
		Note:            t.Note,
		Amount:          s.TotalAmount,
		OccurredAt:      at,
	}
	if err := a.publisher.PublishNotification(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("submission_id", s.ID).Msg("Failed to publish submission event")
	}
}

// publishPayment hands the payment to payroll when the publisher supports it.
func (a *Applier) publishPayment(ctx context.Context, s *model.Submission, p *model.Payment) {
	pp, ok := a.publisher.(messaging.PaymentProducer)
	if !ok {
		return
	}

	event := messaging.PaymentEvent{
		EventID:      uuid.New().String(),
		PaymentID:    p.ID,
		SubmissionID: p.SubmissionID,
		ContractorID: p.ContractorID,
		Amount:       p.Amount,
		PeriodStart:  s.PeriodStart,
		PeriodEnd:    s.PeriodEnd,
		PaidAt:       p.PaidAt,
		CreatedBy:    p.CreatedBy,
	}
	if err := pp.PublishPayment(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("payment_id", p.ID).Msg("Failed to publish payment event")
	}
}

// EventTypeFor names the event emitted on entering status.
func EventTypeFor(status model.Status) messaging.EventType {
	switch status {
	case model.StatusApproved:
		return messaging.SubmissionApproved
	case model.StatusRejected:
		return messaging.SubmissionRejected
	case model.StatusNeedsClarification:
		return messaging.SubmissionClarificationRequested
	case model.StatusPaid:
		return messaging.SubmissionPaid
	}
	return messaging.SubmissionSubmitted
}
