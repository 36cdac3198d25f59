package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"timesheet.service/internal/core"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/worker"
)

// Processor emails contractors about changes to their submissions.
// SES calls go through a circuit breaker.
type Processor struct {
	emailService core.EmailService
	cb           *gobreaker.CircuitBreaker
}

// NewProcessor sets up a new processor for the notification queue.
func NewProcessor(emailService core.EmailService) *Processor {
	settings := gobreaker.Settings{
		Name:        "SES",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &Processor{
		emailService: emailService,
		cb:           gobreaker.NewCircuitBreaker(settings),
	}
}

// Process sends one email per event. Delivery is at least once: a message
// redelivered after a lost delete sends the email again.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty message body")
	}

	var event messaging.SubmissionEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal submission event")
		return false, 0, err
	}

	if event.ContractorEmail == "" {
		log.Ctx(ctx).Info().Str("submission_id", event.SubmissionID).Msg("No contractor email on event. Skipping.")
		return false, 0, nil
	}

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.emailService.SendSubmissionUpdate(ctx, event.ContractorEmail, event)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit Breaker is OPEN; skipping SES call")
		}
		return true, worker.CalculateBackoff(worker.ReceiveCount(msg)), err
	}

	log.Ctx(ctx).Info().
		Str("submission_id", event.SubmissionID).
		Str("type", string(event.Type)).
		Msg("Notification email sent")
	return false, 0, nil
}
